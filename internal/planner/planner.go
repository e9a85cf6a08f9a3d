// package planner manages meal plans on behalf of a signed-in user.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

// Store is the persistence used by [Service]. [repositories.MealPlanRepository] satisfies it.
type Store interface {
	Create(ctx context.Context, plan *models.MealPlan) error
	Get(ctx context.Context, id string) (*models.MealPlan, error)
	List(ctx context.Context, criteria map[string]any) ([]*models.MealPlan, error)
	Delete(ctx context.Context, id string) error
}

// CreateRequest describes a new plan. Times of day are discarded.
type CreateRequest struct {
	StartDate models.Date
	EndDate   models.Date
	Items     []ItemRequest
}

// ItemRequest schedules one recipe in a [CreateRequest].
type ItemRequest struct {
	RecipeID string
	Date     models.Date
	MealType models.MealType
}

// Service enforces ownership of meal plans.
type Service struct {
	store  Store
	strict bool
}

// NewService creates a [Service]. With strictDates set, Create rejects plans whose start is after
// their end or whose items fall outside the plan span.
func NewService(store Store, strictDates bool) *Service {
	return &Service{store: store, strict: strictDates}
}

// List returns every plan owned by userID with its items, in creation order.
func (s *Service) List(ctx context.Context, userID string) ([]*models.MealPlan, error) {
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}

	plans, err := s.store.List(ctx, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

// Create stores a plan owned by userID together with its items. Recipe IDs are not checked.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*models.MealPlan, error) {
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}

	plan := &models.MealPlan{
		UserID:    userID,
		StartDate: models.NewDate(req.StartDate.Time()),
		EndDate:   models.NewDate(req.EndDate.Time()),
		Items:     make([]models.MealPlanItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		plan.Items = append(plan.Items, models.MealPlanItem{
			RecipeID: it.RecipeID,
			Date:     models.NewDate(it.Date.Time()),
			MealType: it.MealType,
		})
	}

	if err := plan.Validate(s.strict); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	if err := s.store.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}
	return plan, nil
}

// Delete removes a plan owned by userID.
//
// Returns [shared.ErrNotFound] when the plan does not exist and [shared.ErrForbidden] when it
// belongs to another user.
func (s *Service) Delete(ctx context.Context, userID, planID string) error {
	if userID == "" {
		return shared.ErrNotAuthenticated
	}

	plan, err := s.store.Get(ctx, planID)
	if errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to load meal plan: %w", err)
	}

	if plan.UserID != userID {
		return fmt.Errorf("%w: meal plan %s", shared.ErrForbidden, planID)
	}

	return s.store.Delete(ctx, planID)
}
