package repositories

import (
	"context"
	"testing"

	"github.com/desertthunder/mise/internal/models"
	tu "github.com/desertthunder/mise/internal/testing"
)

func newUser(t *testing.T, repo *UserRepository, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "Test User")
	user.PasswordHash = "hash"
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func newRecipe(t *testing.T, repo *RecipeRepository, name string, ingredients ...models.Ingredient) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{Name: name, Ingredients: ingredients}
	if err := repo.Create(context.Background(), recipe); err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

func TestNextSequence(t *testing.T) {
	db := tu.MustOpenDB(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(ctx, db, "users")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(ctx, db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "test@example.com")

		if user.ID == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "test@example.com")

		retrieved, err := repo.Get(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, retrieved.Email)
		}
		if retrieved.Role != models.RoleUser {
			t.Errorf("expected role user, got %s", retrieved.Role)
		}
		if retrieved.PasswordHash != "hash" {
			t.Errorf("expected password hash to round trip")
		}
	})

	t.Run("GetByEmail ignores case", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "Cook@Example.com")

		retrieved, err := repo.GetByEmail(ctx, "  cook@example.COM ")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if retrieved.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, retrieved.ID)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "test@example.com")

		user.DisplayName = "Renamed"
		user.Role = models.RoleAdmin
		if err := repo.Update(ctx, user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, _ := repo.Get(ctx, user.ID)
		if retrieved.DisplayName != "Renamed" || !retrieved.IsAdmin() {
			t.Errorf("update not persisted: %+v", retrieved)
		}
	})

	t.Run("SetBanned", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "test@example.com")

		if err := repo.SetBanned(ctx, user.ID, true); err != nil {
			t.Fatalf("failed to ban user: %v", err)
		}

		retrieved, _ := repo.Get(ctx, user.ID)
		if !retrieved.Banned {
			t.Error("expected user to be banned")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		user := newUser(t, repo, "test@example.com")

		if err := repo.Delete(ctx, user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(ctx, user.ID); err == nil {
			t.Error("expected error when getting deleted user")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))

		for _, email := range []string{"user1@example.com", "user2@example.com", "user3@example.com"} {
			newUser(t, repo, email)
		}

		retrieved, err := repo.List(ctx, map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(retrieved) != 3 {
			t.Errorf("expected 3 users, got %d", len(retrieved))
		}
		for i := 1; i < len(retrieved); i++ {
			if retrieved[i].Sequence <= retrieved[i-1].Sequence {
				t.Error("users should be ordered by sequence")
			}
		}

		filtered, err := repo.List(ctx, map[string]any{"email": "user2@example.com"})
		if err != nil {
			t.Fatalf("failed to list filtered users: %v", err)
		}
		if len(filtered) != 1 {
			t.Errorf("expected 1 filtered user, got %d", len(filtered))
		}

		admins, err := repo.List(ctx, map[string]any{"role": models.RoleAdmin})
		if err != nil {
			t.Fatalf("failed to list admins: %v", err)
		}
		if len(admins) != 0 {
			t.Errorf("expected no admins, got %d", len(admins))
		}
	})

	t.Run("Count", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))
		newUser(t, repo, "a@example.com")
		newUser(t, repo, "b@example.com")

		total, err := repo.Count(ctx, "")
		if err != nil {
			t.Fatalf("failed to count users: %v", err)
		}
		if total != 2 {
			t.Errorf("expected 2 users, got %d", total)
		}

		admins, _ := repo.Count(ctx, models.RoleAdmin)
		if admins != 0 {
			t.Errorf("expected 0 admins, got %d", admins)
		}
	})
}

func TestRecipeRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get keep ingredient order", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))
		recipe := newRecipe(t, repo, "Pancakes",
			tu.Ingredient("Flour", "200", "g"),
			tu.Ingredient("Milk", "300", "ml"),
			tu.Ingredient("Eggs", "2", ""),
		)

		retrieved, err := repo.Get(ctx, recipe.ID)
		if err != nil {
			t.Fatalf("failed to get recipe: %v", err)
		}

		if len(retrieved.Ingredients) != 3 {
			t.Fatalf("expected 3 ingredients, got %d", len(retrieved.Ingredients))
		}
		names := []string{"Flour", "Milk", "Eggs"}
		for i, ing := range retrieved.Ingredients {
			if ing.Name != names[i] {
				t.Errorf("ingredient %d: expected %s, got %s", i, names[i], ing.Name)
			}
		}
		if retrieved.Ingredients[2].Unit != nil {
			t.Errorf("expected nil unit, got %q", *retrieved.Ingredients[2].Unit)
		}
		if u := retrieved.Ingredients[0].Unit; u == nil || *u != "g" {
			t.Errorf("expected unit g, got %v", u)
		}
	})

	t.Run("GetMany skips unknown ids", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))
		a := newRecipe(t, repo, "A")
		b := newRecipe(t, repo, "B")

		found, err := repo.GetMany(ctx, []string{a.ID, "missing", b.ID})
		if err != nil {
			t.Fatalf("GetMany() error = %v", err)
		}
		if len(found) != 2 || found[a.ID] == nil || found[b.ID] == nil {
			t.Errorf("unexpected result %v", found)
		}
	})

	t.Run("Update replaces ingredients", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))
		recipe := newRecipe(t, repo, "Soup", tu.Ingredient("Water", "1", "l"))

		recipe.Name = "Tomato Soup"
		recipe.Ingredients = []models.Ingredient{tu.Ingredient("Tomato", "4", "")}
		if err := repo.Update(ctx, recipe); err != nil {
			t.Fatalf("failed to update recipe: %v", err)
		}

		retrieved, _ := repo.Get(ctx, recipe.ID)
		if retrieved.Name != "Tomato Soup" || len(retrieved.Ingredients) != 1 || retrieved.Ingredients[0].Name != "Tomato" {
			t.Errorf("update not persisted: %+v", retrieved)
		}
	})

	t.Run("List filters by name", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))
		newRecipe(t, repo, "Banana Bread")
		newRecipe(t, repo, "Bread Pudding")
		newRecipe(t, repo, "Salad")

		all, err := repo.List(ctx, map[string]any{})
		if err != nil {
			t.Fatalf("failed to list recipes: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 recipes, got %d", len(all))
		}

		breads, _ := repo.List(ctx, map[string]any{"name": "bread"})
		if len(breads) != 2 {
			t.Errorf("expected 2 bread recipes, got %d", len(breads))
		}
	})

	t.Run("Delete removes ingredients", func(t *testing.T) {
		db := tu.MustOpenDB(t)
		repo := NewRecipeRepository(db)
		recipe := newRecipe(t, repo, "Toast", tu.Ingredient("Bread", "2", "slices"))

		if err := repo.Delete(ctx, recipe.ID); err != nil {
			t.Fatalf("failed to delete recipe: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM ingredients").Scan(&count); err != nil {
			t.Fatalf("failed to count ingredients: %v", err)
		}
		if count != 0 {
			t.Errorf("expected ingredients to cascade, %d left", count)
		}
	})
}

func TestMealPlanRepository(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*MealPlanRepository, *models.User, *models.Recipe) {
		db := tu.MustOpenDB(t)
		user := newUser(t, NewUserRepository(db), "planner@example.com")
		recipe := newRecipe(t, NewRecipeRepository(db), "Chili", tu.Ingredient("Beans", "400", "g"))
		return NewMealPlanRepository(db), user, recipe
	}

	plan := func(userID string, start, end models.Date, items ...models.MealPlanItem) *models.MealPlan {
		return &models.MealPlan{UserID: userID, StartDate: start, EndDate: end, Items: items}
	}

	t.Run("Create and Get", func(t *testing.T) {
		repo, user, recipe := setup(t)

		p := plan(user.ID, tu.Day(2), tu.Day(8),
			models.MealPlanItem{RecipeID: recipe.ID, Date: tu.Day(3), MealType: models.Dinner},
			models.MealPlanItem{RecipeID: recipe.ID, Date: tu.Day(4), MealType: models.Lunch},
		)
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}

		retrieved, err := repo.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get plan: %v", err)
		}

		if !retrieved.StartDate.Equal(tu.Day(2)) || !retrieved.EndDate.Equal(tu.Day(8)) {
			t.Errorf("unexpected range %s..%s", retrieved.StartDate, retrieved.EndDate)
		}
		if len(retrieved.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(retrieved.Items))
		}
		if retrieved.Items[1].MealType != models.Lunch || !retrieved.Items[1].Date.Equal(tu.Day(4)) {
			t.Errorf("unexpected second item %+v", retrieved.Items[1])
		}
		if retrieved.Items[0].Recipe != nil {
			t.Error("Get should not resolve recipes")
		}
	})

	t.Run("Create accepts unknown recipe ids", func(t *testing.T) {
		repo, user, _ := setup(t)

		p := plan(user.ID, tu.Day(1), tu.Day(1), models.MealPlanItem{RecipeID: "no-such-recipe", Date: tu.Day(1)})
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("expected dangling recipe reference to be stored, got %v", err)
		}
	})

	t.Run("Create rejects unknown owner", func(t *testing.T) {
		repo, _, _ := setup(t)

		if err := repo.Create(ctx, plan("ghost", tu.Day(1), tu.Day(2))); err == nil {
			t.Error("expected foreign key failure for unknown user")
		}
	})

	t.Run("List by user", func(t *testing.T) {
		repo, user, recipe := setup(t)
		other := newUser(t, NewUserRepository(repo.db), "other@example.com")

		for _, p := range []*models.MealPlan{
			plan(user.ID, tu.Day(1), tu.Day(7), models.MealPlanItem{RecipeID: recipe.ID, Date: tu.Day(1)}),
			plan(user.ID, tu.Day(8), tu.Day(14)),
			plan(other.ID, tu.Day(1), tu.Day(7)),
		} {
			if err := repo.Create(ctx, p); err != nil {
				t.Fatalf("failed to create plan: %v", err)
			}
		}

		plans, err := repo.List(ctx, map[string]any{"user_id": user.ID})
		if err != nil {
			t.Fatalf("failed to list plans: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(plans))
		}
		if len(plans[0].Items) != 1 || len(plans[1].Items) != 0 {
			t.Errorf("items not attached correctly: %d, %d", len(plans[0].Items), len(plans[1].Items))
		}
		if plans[1].Items == nil {
			t.Error("plans without items should have an empty, non-nil item list")
		}
	})

	t.Run("PlansInRange uses overlap and resolves recipes", func(t *testing.T) {
		repo, user, recipe := setup(t)

		inside := plan(user.ID, tu.Day(2), tu.Day(8),
			models.MealPlanItem{RecipeID: recipe.ID, Date: tu.Day(2)},
			models.MealPlanItem{RecipeID: "deleted", Date: tu.Day(3)},
		)
		before := plan(user.ID, tu.Day(1), tu.Day(1))
		straddling := plan(user.ID, tu.Day(8), tu.Day(20))
		for _, p := range []*models.MealPlan{inside, before, straddling} {
			if err := repo.Create(ctx, p); err != nil {
				t.Fatalf("failed to create plan: %v", err)
			}
		}

		plans, err := repo.PlansInRange(ctx, user.ID, tu.Day(2), tu.Day(8))
		if err != nil {
			t.Fatalf("PlansInRange() error = %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("expected 2 overlapping plans, got %d", len(plans))
		}
		if plans[0].ID != inside.ID || plans[1].ID != straddling.ID {
			t.Errorf("unexpected plans or order")
		}

		items := plans[0].Items
		if items[0].Recipe == nil || items[0].Recipe.Name != "Chili" || len(items[0].Recipe.Ingredients) != 1 {
			t.Errorf("expected resolved recipe with ingredients, got %+v", items[0].Recipe)
		}
		if items[1].Recipe != nil {
			t.Error("dangling recipe reference should resolve to nil")
		}
	})

	t.Run("PlansInRange is scoped to user", func(t *testing.T) {
		repo, user, _ := setup(t)
		other := newUser(t, NewUserRepository(repo.db), "other@example.com")

		if err := repo.Create(ctx, plan(other.ID, tu.Day(1), tu.Day(30))); err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}

		plans, err := repo.PlansInRange(ctx, user.ID, tu.Day(1), tu.Day(30))
		if err != nil {
			t.Fatalf("PlansInRange() error = %v", err)
		}
		if len(plans) != 0 {
			t.Errorf("expected no plans for user, got %d", len(plans))
		}
	})

	t.Run("Delete cascades items", func(t *testing.T) {
		repo, user, recipe := setup(t)

		p := plan(user.ID, tu.Day(1), tu.Day(2), models.MealPlanItem{RecipeID: recipe.ID, Date: tu.Day(1)})
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("failed to create plan: %v", err)
		}

		if err := repo.Delete(ctx, p.ID); err != nil {
			t.Fatalf("failed to delete plan: %v", err)
		}

		var count int
		if err := repo.db.QueryRow("SELECT COUNT(*) FROM meal_plan_items").Scan(&count); err != nil {
			t.Fatalf("failed to count items: %v", err)
		}
		if count != 0 {
			t.Errorf("expected items to be deleted, %d left", count)
		}
	})
}
