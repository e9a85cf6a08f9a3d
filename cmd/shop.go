package main

import (
	"context"

	"github.com/desertthunder/mise/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Shop generates the shopping list of --user over [--start, --end] and prints it in --format.
//
// Skipped ingredients and missing recipes are reported through the logger so stdout only
// carries the list itself.
func (r *Runner) Shop(ctx context.Context, cmd *cli.Command) error {
	start, end, err := dateRange(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.lookupUser(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	list, err := d.shopping.Generate(ctx, user.ID, start, end)
	if err != nil {
		return err
	}

	if list.MissingRecipes > 0 {
		r.logger.Warn("planned meals reference deleted recipes", "count", list.MissingRecipes)
	}
	if cmd.Bool("show-skipped") {
		for _, s := range list.Skipped {
			r.logger.Warn("quantity not summed", "recipe", s.Recipe, "date", s.Date, "ingredient", s.Name, "quantity", s.Quantity)
		}
	}

	if path := cmd.String("output"); path != "" || cmd.Bool("save") {
		written, err := formatter.WriteExport(format, path, start, end, list.Items)
		if err != nil {
			return err
		}
		r.logger.Info("shopping list saved", "file", written, "items", len(list.Items))
		return nil
	}

	data, err := formatter.Export(format, formatter.Title(start, end), list.Items)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}
