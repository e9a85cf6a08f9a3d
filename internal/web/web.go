// Package web implements the HTTP surface of the recipe planner: a JSON API and server-rendered pages.
//
// # Architecture
//
// [App] wires the account, meal plan, and shopping list services into a [server.BasicRouter].
// Every route runs behind panic recovery, request logging, and the session middleware, which places
// the signed-in user ID in the request context. Handlers that need a user answer 401 (API) or
// redirect to the login page (HTML) when there is none.
//
// # Routes
//
//	GET    /api/shoppinglist?startDate=&endDate=          → aggregated shopping list (JSON array)
//	GET    /api/shoppinglist/export?startDate=&endDate=&format=csv|md|txt|json → file download
//	GET    /api/mealplans                                 → caller's plans with items
//	POST   /api/mealplans                                 → create plan, 201 without body
//	DELETE /api/mealplans/{id}                            → 204, 403 or 404
//	GET    /api/recipes?q=                                → recipe catalogue
//	POST   /api/recipes                                   → add a recipe
//	POST   /auth/register | /auth/login | /auth/logout    → account endpoints
//	GET    /auth/me                                       → signed-in account
//	GET    /  /login  /register  /mealplan                → HTML pages
//	GET    /healthz                                       → liveness probe
//
// Dates are accepted as YYYY-MM-DD or RFC 3339 timestamps; the time of day is ignored.
//
// # Errors
//
// Service errors are mapped to status codes by [StatusFor]. Unexpected errors are logged and
// answered with a generic 500 body.
package web

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/mise/internal/auth"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/planner"
	"github.com/desertthunder/mise/internal/server"
	"github.com/desertthunder/mise/internal/shopping"
)

// RecipeStore is the recipe catalogue used by the API and pages.
type RecipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	List(ctx context.Context, criteria map[string]any) ([]*models.Recipe, error)
}

// Options holds the dependencies of an [App].
type Options struct {
	Accounts *auth.Service
	Sessions *auth.Sessions
	Limiter  *auth.LoginLimiter
	// TrustProxy keys the limiter on X-Forwarded-For instead of the remote address.
	TrustProxy bool
	Planner    *planner.Service
	Shopping   *shopping.Aggregator
	Recipes    RecipeStore
	Logger     *log.Logger
}

// App serves the web application.
type App struct {
	accounts   *auth.Service
	sessions   *auth.Sessions
	limiter    *auth.LoginLimiter
	trustProxy bool
	planner    *planner.Service
	shopping   *shopping.Aggregator
	recipes    RecipeStore
	logger     *log.Logger
	pages      *renderer
}

// New creates an [App]. A nil limiter disables login throttling.
func New(opts Options) (*App, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = auth.NewLoginLimiter(0, 1)
	}

	return &App{
		accounts:   opts.Accounts,
		sessions:   opts.Sessions,
		limiter:    limiter,
		trustProxy: opts.TrustProxy,
		planner:    opts.Planner,
		shopping:   opts.Shopping,
		recipes:    opts.Recipes,
		logger:     opts.Logger,
		pages:      pages,
	}, nil
}

// Handler returns the router serving every route of the application.
func (a *App) Handler() http.Handler {
	r := server.NewBasicRouter()
	r.Use(server.Recoverer(a.logger), server.RequestLogger(a.logger), a.sessions.Middleware)

	r.HandleFunc(http.MethodGet, "/api/shoppinglist", a.getShoppingList)
	r.HandleFunc(http.MethodGet, "/api/shoppinglist/export", a.exportShoppingList)
	r.HandleFunc(http.MethodGet, "/api/mealplans", a.listMealPlans)
	r.HandleFunc(http.MethodPost, "/api/mealplans", a.createMealPlan)
	r.HandleFunc(http.MethodDelete, "/api/mealplans/{id}", a.deleteMealPlan)
	r.HandleFunc(http.MethodGet, "/api/recipes", a.listRecipes)
	r.HandleFunc(http.MethodPost, "/api/recipes", a.createRecipe)

	r.HandleFunc(http.MethodPost, "/auth/register", a.register)
	r.HandleFunc(http.MethodPost, "/auth/login", a.login)
	r.HandleFunc(http.MethodPost, "/auth/logout", a.logout)
	r.HandleFunc(http.MethodGet, "/auth/me", a.me)

	r.Handler(healthHandler{})

	r.HandleFunc(http.MethodGet, "/{$}", a.homePage)
	r.HandleFunc(http.MethodGet, "/login", a.loginPage)
	r.HandleFunc(http.MethodPost, "/login", a.loginSubmit)
	r.HandleFunc(http.MethodGet, "/register", a.registerPage)
	r.HandleFunc(http.MethodPost, "/register", a.registerSubmit)
	r.HandleFunc(http.MethodPost, "/logout", a.logoutSubmit)
	r.HandleFunc(http.MethodGet, "/mealplan", a.mealPlanPage)
	r.HandleFunc(http.MethodPost, "/mealplan", a.mealPlanSubmit)
	r.HandleFunc(http.MethodPost, "/mealplan/{id}/delete", a.mealPlanDelete)

	return r
}
