package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrBanned             = fmt.Errorf("account banned")
	ErrSessionExpired     = fmt.Errorf("session expired")
	ErrTooManyRequests    = fmt.Errorf("too many requests")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrWeakPassword       = fmt.Errorf("password does not meet requirements")
	ErrForbidden          = fmt.Errorf("forbidden")

	// Persistence errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrRecipeNotFound   = fmt.Errorf("%w: recipe", ErrNotFound)
	ErrMealPlanNotFound = fmt.Errorf("%w: meal plan", ErrNotFound)

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidDate     = fmt.Errorf("%w: date", ErrInvalidInput)
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
