package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
	tu "github.com/desertthunder/mise/internal/testing"
)

func TestUserRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))
			user := models.NewUser("", "Test User")
			user.PasswordHash = "hash"

			err := repo.Create(ctx, user)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
			}
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))
			newUser(t, repo, "test@example.com")

			user := models.NewUser("TEST@example.com", "User Two")
			user.PasswordHash = "hash"

			err := repo.Create(ctx, user)
			if !errors.Is(err, shared.ErrEmailTaken) {
				t.Fatalf("expected ErrEmailTaken, got %v", err)
			}
			if user.ID != "" {
				t.Error("failed create should not assign an ID")
			}
		})

		t.Run("SequenceNotConsumed", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))
			newUser(t, repo, "test@example.com")

			dup := models.NewUser("test@example.com", "Dup")
			dup.PasswordHash = "hash"
			_ = repo.Create(ctx, dup)

			next := newUser(t, repo, "next@example.com")
			if next.Sequence != 2 {
				t.Errorf("expected rolled back sequence, got %d", next.Sequence)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))

			_, err := repo.Get(ctx, "nonexistent-id")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("ByEmailNotFound", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))

			_, err := repo.GetByEmail(ctx, "nobody@example.com")
			if !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))
			user := models.NewUser("test@example.com", "Test User")
			user.PasswordHash = "hash"
			user.ID = "nonexistent-id"

			if err := repo.Update(ctx, user); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})

		t.Run("EmailTaken", func(t *testing.T) {
			repo := NewUserRepository(tu.MustOpenDB(t))
			newUser(t, repo, "first@example.com")
			second := newUser(t, repo, "second@example.com")

			second.Email = "first@example.com"
			if err := repo.Update(ctx, second); !errors.Is(err, shared.ErrEmailTaken) {
				t.Fatalf("expected ErrEmailTaken, got %v", err)
			}
		})
	})

	t.Run("SetBanned", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))

		if err := repo.SetBanned(ctx, "nonexistent-id", true); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewUserRepository(tu.MustOpenDB(t))

		if err := repo.Delete(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := tu.MustOpenDB(t)
		repo := NewUserRepository(db)
		db.Close()

		if _, err := repo.List(ctx, map[string]any{}); err == nil {
			t.Error("expected error listing from closed database")
		}
		if _, err := repo.Count(ctx, ""); err == nil {
			t.Error("expected error counting from closed database")
		}
	})
}

func TestRecipeRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateWithoutName", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))

		err := repo.Create(ctx, &models.Recipe{Name: "   "})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))

		_, err := repo.Get(ctx, "missing")
		if !errors.Is(err, shared.ErrRecipeNotFound) {
			t.Fatalf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))

		err := repo.Update(ctx, &models.Recipe{ID: "missing", Name: "Ghost"})
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))

		if err := repo.Delete(ctx, "missing"); !errors.Is(err, shared.ErrRecipeNotFound) {
			t.Fatalf("expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		repo := NewRecipeRepository(tu.MustOpenDB(t))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if err := repo.Create(cancelled, &models.Recipe{Name: "Late"}); err == nil {
			t.Error("expected error with cancelled context")
		}
	})
}

func TestMealPlanRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("GetNotFound", func(t *testing.T) {
		repo := NewMealPlanRepository(tu.MustOpenDB(t))

		_, err := repo.Get(ctx, "missing")
		if !errors.Is(err, shared.ErrMealPlanNotFound) {
			t.Fatalf("expected ErrMealPlanNotFound, got %v", err)
		}
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		repo := NewMealPlanRepository(tu.MustOpenDB(t))

		if err := repo.Delete(ctx, "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("FailedCreateLeavesNoRows", func(t *testing.T) {
		db := tu.MustOpenDB(t)
		repo := NewMealPlanRepository(db)

		plan := &models.MealPlan{
			UserID:    "ghost",
			StartDate: tu.Day(1),
			EndDate:   tu.Day(2),
			Items:     []models.MealPlanItem{{RecipeID: "r", Date: tu.Day(1)}},
		}
		if err := repo.Create(ctx, plan); err == nil {
			t.Fatal("expected foreign key failure")
		}

		var plans, items int
		db.QueryRow("SELECT COUNT(*) FROM meal_plans").Scan(&plans)
		db.QueryRow("SELECT COUNT(*) FROM meal_plan_items").Scan(&items)
		if plans != 0 || items != 0 {
			t.Errorf("expected no rows after failed create, got %d plans and %d items", plans, items)
		}
	})

	t.Run("PlansInRangeClosedDatabase", func(t *testing.T) {
		db := tu.MustOpenDB(t)
		repo := NewMealPlanRepository(db)
		db.Close()

		if _, err := repo.PlansInRange(ctx, "u", tu.Day(1), tu.Day(2)); err == nil {
			t.Error("expected error from closed database")
		}
	})
}
