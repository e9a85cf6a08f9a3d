// Package models defines domain entities for the mise recipe planner.
//
// Persistent entities:
//   - [User] : Accounts with email login, role and banned flag
//   - [Recipe] : Named recipes with an ordered [Ingredient] list
//   - [MealPlan] : A user-owned date range holding [MealPlanItem] assignments
//
// Derived values:
//   - [ShoppingItem] : One line of a generated shopping list, never persisted
//
// Calendar days are represented by [Date], which carries no time of day or zone.
package models
