// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
//
// Key Implementations:
//   - [UserRepository] : Accounts with case-insensitive email lookups and ban management
//   - [RecipeRepository] : Recipes and their ordered ingredient lists
//   - [MealPlanRepository] : Meal plans and items, including the eager range query used for shopping lists
//
// Sequence numbers provide creation ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Queries never hold a result set open while issuing another statement, so repositories work on a
// single-connection pool (as used for in-memory databases).
package repositories
