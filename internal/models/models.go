// package models defines the data model for the recipe planner
package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrValidation is wrapped by every Validate failure.
var ErrValidation = errors.New("validation failed")

// Role is the authorization tier of a [User].
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// MealType tags the slot of a [MealPlanItem]. Values outside the predefined set are accepted.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// User is an account that owns meal plans.
type User struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"-"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser creates a [User] with the default role and fresh timestamps.
func NewUser(email, displayName string) *User {
	now := time.Now().UTC()
	return &User{
		Email:       strings.TrimSpace(email),
		DisplayName: strings.TrimSpace(displayName),
		Role:        RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Validate checks the fields required for persistence.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, u.Email)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	switch u.Role {
	case RoleUser, RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}
	return nil
}

// Recipe is a named list of ingredients. Recipes are shared across users.
type Recipe struct {
	ID          string       `json:"id"`
	Sequence    int          `json:"-"`
	Name        string       `json:"name"`
	UserID      string       `json:"userId,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Validate checks the recipe and each of its ingredients.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: recipe name is required", ErrValidation)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrValidation, i+1)
		}
	}
	return nil
}

// Ingredient belongs to exactly one [Recipe].
//
// Quantity is free text and is only summed when it parses as a plain decimal number.
// A nil Unit means the recipe gave none.
type Ingredient struct {
	Name     string  `json:"name" toml:"name"`
	Quantity string  `json:"quantity" toml:"quantity"`
	Unit     *string `json:"unit" toml:"unit"`
}

// MealPlan schedules recipes over the inclusive range [StartDate, EndDate].
type MealPlan struct {
	ID        string         `json:"id"`
	Sequence  int            `json:"-"`
	UserID    string         `json:"userId"`
	StartDate Date           `json:"startDate"`
	EndDate   Date           `json:"endDate"`
	Items     []MealPlanItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Overlaps reports whether the plan span intersects [start, end].
func (p *MealPlan) Overlaps(start, end Date) bool {
	return !p.StartDate.After(end) && !p.EndDate.Before(start)
}

// Validate checks required fields. With strict set it also enforces StartDate <= EndDate
// and that every item falls inside the plan span.
func (p *MealPlan) Validate(strict bool) error {
	if p.UserID == "" {
		return fmt.Errorf("%w: meal plan owner is required", ErrValidation)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	for i, item := range p.Items {
		if item.RecipeID == "" {
			return fmt.Errorf("%w: item %d has no recipe", ErrValidation, i+1)
		}
		if item.Date.IsZero() {
			return fmt.Errorf("%w: item %d has no date", ErrValidation, i+1)
		}
	}

	if !strict {
		return nil
	}

	if p.StartDate.After(p.EndDate) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrValidation, p.StartDate, p.EndDate)
	}
	for i, item := range p.Items {
		if !item.Date.Within(p.StartDate, p.EndDate) {
			return fmt.Errorf("%w: item %d date %s is outside %s..%s", ErrValidation, i+1, item.Date, p.StartDate, p.EndDate)
		}
	}
	return nil
}

// MealPlanItem assigns one recipe to one day and meal slot.
//
// Recipe is only populated by queries that resolve recipes eagerly, and stays nil when
// RecipeID no longer refers to an existing recipe.
type MealPlanItem struct {
	RecipeID string   `json:"recipeId"`
	Date     Date     `json:"date"`
	MealType MealType `json:"mealType"`
	Recipe   *Recipe  `json:"-"`
}

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           *string `json:"unit"`
	OriginalString *string `json:"originalString"`
}

// UnitString returns the unit or an empty string.
func (s ShoppingItem) UnitString() string {
	if s.Unit == nil {
		return ""
	}
	return *s.Unit
}
