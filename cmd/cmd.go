// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file, run migrations and seed the admin account",
				Action: r.SetupDatabase,
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand starts the web application.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}

// userCommand manages accounts.
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Account management",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name (defaults to the email's local part)",
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password, at least 6 characters with a digit",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Grant the admin role",
					},
				},
				Action: r.UserCreate,
			},
			{
				Name:      "ban",
				Usage:     "Ban an account so it can no longer sign in",
				Arguments: []cli.Argument{&cli.StringArg{Name: "email"}},
				Action:    r.UserBan,
			},
			{
				Name:      "unban",
				Usage:     "Lift a ban",
				Arguments: []cli.Argument{&cli.StringArg{Name: "email"}},
				Action:    r.UserUnban,
			},
			{
				Name:  "list",
				Usage: "List accounts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "role",
						Usage: "Only show accounts with this role (user, admin)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.UserList,
			},
		},
	}
}

// recipeCommand manages the shared recipe catalogue.
func recipeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recipe",
		Usage: "Recipe catalogue operations",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import recipes from a TOML file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user",
						Usage: "Email of the account that owns the imported recipes",
					},
				},
				Action: r.RecipeImport,
			},
			{
				Name:  "list",
				Usage: "List recipes",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Only show recipes whose name contains this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.RecipeList,
			},
		},
	}
}

// planCommand manages meal plans.
func planCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Meal plan operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a user's meal plans",
				Flags: []cli.Flag{
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlanList,
			},
			{
				Name:  "delete",
				Usage: "Delete a meal plan",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Meal plan ID",
						Required: true,
					},
				},
				Action: r.PlanDelete,
			},
		},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "Email of the plan owner",
		Required: true,
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		userFlag(),
		&cli.StringFlag{
			Name:  "start",
			Usage: "First day of the range (YYYY-MM-DD, defaults to today)",
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "Last day of the range (YYYY-MM-DD, defaults to six days after start)",
		},
	}
}

// shopCommand prints or exports a shopping list.
func shopCommand(r *Runner) *cli.Command {
	flags := append(rangeFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, csv, md, txt",
			Value:   "txt",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the list to this file instead of stdout",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Write the list to the default file name",
		},
		&cli.BoolFlag{
			Name:  "show-skipped",
			Usage: "Report ingredients whose quantity could not be summed",
		},
	)

	return &cli.Command{
		Name:   "shop",
		Usage:  "Generate the shopping list for a date range",
		Flags:  flags,
		Action: r.Shop,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive shopping list checklist",
		Flags:  rangeFlags(),
		Action: r.TUI,
	}
}
