package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mise/internal/models"
	"github.com/urfave/cli/v3"
)

// PlanList prints the meal plans owned by --user.
func (r *Runner) PlanList(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.lookupUser(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	plans, err := d.planner.List(ctx, user.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if plans == nil {
			plans = []*models.MealPlan{}
		}
		return r.writeJSON(plans, true)
	}

	rows := make([][]string, len(plans))
	for i, p := range plans {
		meals := make([]string, len(p.Items))
		for j, item := range p.Items {
			meals[j] = fmt.Sprintf("%s %s", item.Date, item.MealType)
		}
		rows[i] = []string{p.ID, p.StartDate.String(), p.EndDate.String(), strings.Join(meals, "\n")}
	}
	return r.writeTable([]string{"ID", "Start", "End", "Meals"}, rows)
}

// PlanDelete removes a plan owned by --user.
func (r *Runner) PlanDelete(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.lookupUser(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := d.planner.Delete(ctx, user.ID, id); err != nil {
		return err
	}

	r.logger.Info("meal plan deleted", "id", id, "user", user.Email)
	return r.writePlain("✓ Deleted meal plan %s\n", id)
}
