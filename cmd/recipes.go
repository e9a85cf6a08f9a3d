package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/urfave/cli/v3"
)

// recipeFile is the TOML layout accepted by recipe import:
//
//	[[recipe]]
//	name = "Pancakes"
//
//	[[recipe.ingredients]]
//	name = "Flour"
//	quantity = "200"
//	unit = "g"
type recipeFile struct {
	Recipes []struct {
		Name        string              `toml:"name"`
		Ingredients []models.Ingredient `toml:"ingredients"`
	} `toml:"recipe"`
}

// RecipeImport creates every recipe in a TOML file. Recipes are validated before any is written.
func (r *Runner) RecipeImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	var file recipeFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", shared.ErrInvalidInput, path, err)
	}
	if len(file.Recipes) == 0 {
		return fmt.Errorf("%w: %s contains no [[recipe]] tables", shared.ErrInvalidInput, path)
	}

	d, err := r.deps()
	if err != nil {
		return err
	}

	var owner string
	if email := cmd.String("user"); email != "" {
		user, err := d.lookupUser(ctx, email)
		if err != nil {
			return err
		}
		owner = user.ID
	}

	recipes := make([]*models.Recipe, len(file.Recipes))
	for i, rec := range file.Recipes {
		recipes[i] = &models.Recipe{Name: rec.Name, UserID: owner, Ingredients: rec.Ingredients}
		if err := recipes[i].Validate(); err != nil {
			return fmt.Errorf("%w: recipe %d: %v", shared.ErrInvalidInput, i+1, err)
		}
	}

	for _, recipe := range recipes {
		if err := d.recipes.Create(ctx, recipe); err != nil {
			return fmt.Errorf("failed to import %q: %w", recipe.Name, err)
		}
		r.logger.Debug("recipe imported", "id", recipe.ID, "name", recipe.Name, "ingredients", len(recipe.Ingredients))
	}

	return r.writePlain("✓ Imported %d recipes from %s\n", len(recipes), path)
}

// RecipeList prints the recipe catalogue.
func (r *Runner) RecipeList(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	recipes, err := d.recipes.List(ctx, map[string]any{"name": cmd.String("query")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if recipes == nil {
			recipes = []*models.Recipe{}
		}
		return r.writeJSON(recipes, cmd.Bool("pretty"))
	}

	rows := make([][]string, len(recipes))
	for i, rec := range recipes {
		rows[i] = []string{rec.ID, rec.Name, strconv.Itoa(len(rec.Ingredients))}
	}
	return r.writeTable([]string{"ID", "Name", "Ingredients"}, rows)
}
