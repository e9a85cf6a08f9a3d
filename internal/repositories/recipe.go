package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

const recipeColumns = `id, sequence, name, user_id, created_at, updated_at`

// RecipeRepository persists [models.Recipe] values together with their ingredients.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository with the given database connection
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts a recipe and its ingredients in a single transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "recipes")
	if err != nil {
		return err
	}

	id := shared.GenerateID()
	now := time.Now().UTC()

	var owner sql.NullString
	if recipe.UserID != "" {
		owner = sql.NullString{String: recipe.UserID, Valid: true}
	}

	query := `INSERT INTO recipes (` + recipeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, id, sequence, strings.TrimSpace(recipe.Name), owner, now, now); err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	if err := insertIngredients(ctx, tx, id, recipe.Ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	recipe.ID = id
	recipe.Sequence = sequence
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	return nil
}

// Update replaces the name and ingredient list of an existing recipe.
func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE recipes SET name = ?, updated_at = ? WHERE id = ?`, strings.TrimSpace(recipe.Name), now, recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := expectAffected(result, shared.ErrRecipeNotFound, recipe.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE recipe_id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}

	if err := insertIngredients(ctx, tx, recipe.ID, recipe.Ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}

	recipe.UpdatedAt = now
	return nil
}

// Get retrieves a recipe by ID with its ingredients in order.
func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	recipes, err := r.GetMany(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	recipe, ok := recipes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrRecipeNotFound, id)
	}
	return recipe, nil
}

// GetMany resolves a set of recipe IDs. IDs without a matching recipe are absent from the map.
func (r *RecipeRepository) GetMany(ctx context.Context, ids []string) (map[string]*models.Recipe, error) {
	found := make(map[string]*models.Recipe, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id IN (` + placeholders(len(ids)) + `)`
	recipes, err := r.query(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, err
	}

	for _, recipe := range recipes {
		found[recipe.ID] = recipe
	}
	return found, nil
}

// List retrieves recipes ordered by creation.
//
// Supported criteria: "user_id" (string) and "name" (string, case-insensitive substring).
func (r *RecipeRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1 = 1`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY sequence ASC"

	return r.query(ctx, query, args...)
}

// Delete removes a recipe and its ingredients. Meal plan items that reference it are left dangling.
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectAffected(result, shared.ErrRecipeNotFound, id)
}

// query runs a recipe SELECT and then loads ingredients for every returned recipe.
func (r *RecipeRepository) query(ctx context.Context, query string, args ...any) ([]*models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	var recipes []*models.Recipe
	for rows.Next() {
		var (
			recipe models.Recipe
			owner  sql.NullString
		)
		if err := rows.Scan(&recipe.ID, &recipe.Sequence, &recipe.Name, &owner, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipe.UserID = owner.String
		recipe.Ingredients = []models.Ingredient{}
		recipes = append(recipes, &recipe)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	if err := r.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) attachIngredients(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[string]*models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	query := `
		SELECT recipe_id, name, quantity, unit
		FROM ingredients
		WHERE recipe_id IN (` + placeholders(len(ids)) + `)
		ORDER BY recipe_id, position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			recipeID string
			ing      models.Ingredient
			unit     sql.NullString
		)
		if err := rows.Scan(&recipeID, &ing.Name, &ing.Quantity, &unit); err != nil {
			return fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ing.Unit = stringPtr(unit)

		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, ing)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

func insertIngredients(ctx context.Context, tx *sql.Tx, recipeID string, ingredients []models.Ingredient) error {
	for i, ing := range ingredients {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ingredients (recipe_id, position, name, quantity, unit) VALUES (?, ?, ?, ?, ?)`,
			recipeID, i, ing.Name, ing.Quantity, nullString(ing.Unit),
		)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient %q: %w", ing.Name, err)
		}
	}
	return nil
}
