package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserCreate registers an account, optionally with the admin role.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.accounts.Register(ctx, cmd.String("email"), cmd.String("name"), cmd.String("password"))
	if err != nil {
		return err
	}

	if cmd.Bool("admin") {
		user.Role = models.RoleAdmin
		if err := d.users.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
	}

	r.logger.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	return r.writePlain("✓ Created %s (%s)\n", user.Email, user.ID)
}

// UserBan prevents an account from signing in.
func (r *Runner) UserBan(ctx context.Context, cmd *cli.Command) error {
	return r.setBanned(ctx, cmd.StringArg("email"), true)
}

// UserUnban lifts a ban.
func (r *Runner) UserUnban(ctx context.Context, cmd *cli.Command) error {
	return r.setBanned(ctx, cmd.StringArg("email"), false)
}

func (r *Runner) setBanned(ctx context.Context, email string, banned bool) error {
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	d, err := r.deps()
	if err != nil {
		return err
	}

	user, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := d.users.SetBanned(ctx, user.ID, banned); err != nil {
		return err
	}

	verb := "Unbanned"
	if banned {
		verb = "Banned"
	}
	return r.writePlain("✓ %s %s\n", verb, user.Email)
}

// UserList prints accounts as a table or JSON.
func (r *Runner) UserList(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if role := cmd.String("role"); role != "" {
		switch models.Role(role) {
		case models.RoleUser, models.RoleAdmin:
			criteria["role"] = models.Role(role)
		default:
			return fmt.Errorf("%w: unknown role %q", shared.ErrInvalidArgument, role)
		}
	}

	users, err := d.users.List(ctx, criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if users == nil {
			users = []*models.User{}
		}
		return r.writeJSON(users, true)
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.Email, u.DisplayName, string(u.Role), strconv.FormatBool(u.Banned), u.CreatedAt.Format("2006-01-02")}
	}
	return r.writeTable([]string{"Email", "Name", "Role", "Banned", "Created"}, rows)
}
