package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/mise/internal/auth"
	"github.com/desertthunder/mise/internal/formatter"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/planner"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/desertthunder/mise/internal/shopping"
)

type mealPlanItemRequest struct {
	RecipeID string          `json:"recipeId"`
	Date     models.Date     `json:"date"`
	MealType models.MealType `json:"mealType"`
}

type mealPlanRequest struct {
	StartDate models.Date           `json:"startDate"`
	EndDate   models.Date           `json:"endDate"`
	Items     []mealPlanItemRequest `json:"items"`
}

func (req mealPlanRequest) toCreate() planner.CreateRequest {
	out := planner.CreateRequest{StartDate: req.StartDate, EndDate: req.EndDate}
	for _, it := range req.Items {
		out.Items = append(out.Items, planner.ItemRequest{RecipeID: it.RecipeID, Date: it.Date, MealType: it.MealType})
	}
	return out
}

// generate runs the aggregator for the signed-in user over the query range.
func (a *App) generate(r *http.Request) (*shopping.List, models.Date, models.Date, error) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		return nil, models.Date{}, models.Date{}, shared.ErrNotAuthenticated
	}

	start, end, err := parseRange(r.URL.Query())
	if err != nil {
		return nil, start, end, err
	}

	list, err := a.shopping.Generate(r.Context(), userID, start, end)
	if err != nil {
		return nil, start, end, err
	}

	for _, s := range list.Skipped {
		a.logger.Debug("skipped ingredient quantity",
			"user", userID, "recipe", s.Recipe, "date", s.Date, "ingredient", s.Name, "quantity", s.Quantity)
	}
	if list.MissingRecipes > 0 {
		a.logger.Debug("meal plan items reference deleted recipes", "user", userID, "count", list.MissingRecipes)
	}

	return list, start, end, nil
}

func (a *App) getShoppingList(w http.ResponseWriter, r *http.Request) {
	list, _, _, err := a.generate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, list.Items)
}

func (a *App) exportShoppingList(w http.ResponseWriter, r *http.Request) {
	rawFormat := r.URL.Query().Get("format")
	if rawFormat == "" {
		rawFormat = string(formatter.FormatCSV)
	}
	format, err := formatter.ParseFormat(rawFormat)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	list, start, end, err := a.generate(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	data, err := formatter.Export(format, formatter.Title(start, end), list.Items)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", formatter.Filename(format, start, end)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (a *App) listMealPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := a.planner.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusOK, plans)
}

func (a *App) createMealPlan(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		a.fail(w, r, shared.ErrNotAuthenticated)
		return
	}

	var req mealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	plan, err := a.planner.Create(r.Context(), userID, req.toCreate())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Info("meal plan created", "user", userID, "plan", plan.ID, "items", len(plan.Items))
	w.Header().Set("Location", "/api/mealplans")
	w.WriteHeader(http.StatusCreated)
}

func (a *App) deleteMealPlan(w http.ResponseWriter, r *http.Request) {
	if err := a.planner.Delete(r.Context(), auth.UserID(r.Context()), r.PathValue("id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listRecipes(w http.ResponseWriter, r *http.Request) {
	if auth.UserID(r.Context()) == "" {
		a.fail(w, r, shared.ErrNotAuthenticated)
		return
	}

	criteria := map[string]any{}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		criteria["name"] = q
	}

	recipes, err := a.recipes.List(r.Context(), criteria)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	a.respond(w, r, http.StatusOK, recipes)
}

func (a *App) createRecipe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		a.fail(w, r, shared.ErrNotAuthenticated)
		return
	}

	var recipe models.Recipe
	if err := decodeJSON(w, r, &recipe); err != nil {
		a.fail(w, r, err)
		return
	}
	recipe.ID = ""
	recipe.UserID = userID
	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.Ingredient{}
	}

	if err := a.recipes.Create(r.Context(), &recipe); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, r, http.StatusCreated, recipe)
}
