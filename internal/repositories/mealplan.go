package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

const mealPlanColumns = `id, sequence, user_id, start_date, end_date, created_at`

// MealPlanRepository persists [models.MealPlan] values and their items.
type MealPlanRepository struct {
	db      *sql.DB
	recipes *RecipeRepository
}

// NewMealPlanRepository creates a new MealPlanRepository. Recipes are resolved through [RecipeRepository].
func NewMealPlanRepository(db *sql.DB) *MealPlanRepository {
	return &MealPlanRepository{db: db, recipes: NewRecipeRepository(db)}
}

// Create inserts a plan and its items atomically. Dates are stored as calendar days.
//
// Recipe IDs are stored as given, whether or not a recipe exists for them.
func (r *MealPlanRepository) Create(ctx context.Context, plan *models.MealPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "meal_plans")
	if err != nil {
		return err
	}

	id := shared.GenerateID()
	now := time.Now().UTC()

	query := `INSERT INTO meal_plans (` + mealPlanColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, id, sequence, plan.UserID, plan.StartDate.String(), plan.EndDate.String(), now); err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	for i, item := range plan.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meal_plan_items (meal_plan_id, position, recipe_id, date, meal_type) VALUES (?, ?, ?, ?, ?)`,
			id, i, item.RecipeID, item.Date.String(), string(item.MealType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal plan item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit meal plan: %w", err)
	}

	plan.ID = id
	plan.Sequence = sequence
	plan.CreatedAt = now
	return nil
}

// Get retrieves a plan by ID with its items (recipes are not resolved).
func (r *MealPlanRepository) Get(ctx context.Context, id string) (*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE id = ?`

	plan, err := scanMealPlan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrMealPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*models.MealPlan{plan}); err != nil {
		return nil, err
	}
	return plan, nil
}

// List retrieves plans ordered by creation with their items loaded.
//
// Supported criteria: "user_id" (string).
func (r *MealPlanRepository) List(ctx context.Context, criteria map[string]any) ([]*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE 1 = 1`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	plans, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// PlansInRange returns the user's plans whose span overlaps [start, end], with every item's recipe and the
// recipe's ingredients resolved. Items referencing a missing recipe keep a nil Recipe.
//
// Items are not filtered by date here.
func (r *MealPlanRepository) PlansInRange(ctx context.Context, userID string, start, end models.Date) ([]*models.MealPlan, error) {
	query := `
		SELECT ` + mealPlanColumns + `
		FROM meal_plans
		WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY sequence ASC
	`

	plans, err := r.query(ctx, query, userID, end.String(), start.String())
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, plans); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var ids []string
	for _, plan := range plans {
		for _, item := range plan.Items {
			if !seen[item.RecipeID] {
				seen[item.RecipeID] = true
				ids = append(ids, item.RecipeID)
			}
		}
	}

	recipes, err := r.recipes.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipes: %w", err)
	}

	for _, plan := range plans {
		for i := range plan.Items {
			plan.Items[i].Recipe = recipes[plan.Items[i].RecipeID]
		}
	}

	return plans, nil
}

// Delete removes a plan. Items are removed by the cascading foreign key.
func (r *MealPlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return expectAffected(result, shared.ErrMealPlanNotFound, id)
}

func (r *MealPlanRepository) query(ctx context.Context, query string, args ...any) ([]*models.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.MealPlan{}
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return plans, nil
}

func (r *MealPlanRepository) attachItems(ctx context.Context, plans []*models.MealPlan) error {
	if len(plans) == 0 {
		return nil
	}

	byID := make(map[string]*models.MealPlan, len(plans))
	ids := make([]string, 0, len(plans))
	for _, plan := range plans {
		plan.Items = []models.MealPlanItem{}
		byID[plan.ID] = plan
		ids = append(ids, plan.ID)
	}

	query := `
		SELECT meal_plan_id, recipe_id, date, meal_type
		FROM meal_plan_items
		WHERE meal_plan_id IN (` + placeholders(len(ids)) + `)
		ORDER BY meal_plan_id, position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query meal plan items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var planID, recipeID, date, mealType string
		if err := rows.Scan(&planID, &recipeID, &date, &mealType); err != nil {
			return fmt.Errorf("failed to scan meal plan item: %w", err)
		}

		d, err := models.ParseDate(date)
		if err != nil {
			return fmt.Errorf("corrupt item date for plan %s: %w", planID, err)
		}

		if plan, ok := byID[planID]; ok {
			plan.Items = append(plan.Items, models.MealPlanItem{
				RecipeID: recipeID,
				Date:     d,
				MealType: models.MealType(mealType),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func scanMealPlan(row rowScanner) (*models.MealPlan, error) {
	var (
		plan       models.MealPlan
		start, end string
	)

	err := row.Scan(&plan.ID, &plan.Sequence, &plan.UserID, &start, &end, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan meal plan: %w", err)
	}

	if plan.StartDate, err = models.ParseDate(start); err != nil {
		return nil, fmt.Errorf("corrupt start date for plan %s: %w", plan.ID, err)
	}
	if plan.EndDate, err = models.ParseDate(end); err != nil {
		return nil, fmt.Errorf("corrupt end date for plan %s: %w", plan.ID, err)
	}

	return &plan, nil
}
