package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/mise/internal/auth"
	"github.com/desertthunder/mise/internal/server"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/desertthunder/mise/internal/web"
	"github.com/urfave/cli/v3"
)

const defaultSecret = "change-me-before-deploying"

// Serve runs pending migrations and starts the web application until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	d, err := r.deps()
	if err != nil {
		return err
	}

	if applied, err := shared.RunMigrations(r.db); err != nil {
		return err
	} else if applied > 0 {
		r.logger.Info("migrations applied", "count", applied)
	}

	if r.config.Session.Secret == defaultSecret {
		r.logger.Warn("using the example session secret", "env", shared.SessionSecretEnv)
	}

	sessions, err := auth.NewSessions(r.config.Session)
	if err != nil {
		return err
	}

	app, err := web.New(web.Options{
		Accounts:   d.accounts,
		Sessions:   sessions,
		Limiter:    auth.NewLoginLimiter(r.config.Session.LoginRate, r.config.Session.LoginBurst),
		TrustProxy: r.config.Server.TrustProxy,
		Planner:    d.planner,
		Shopping:   d.shopping,
		Recipes:    d.recipes,
		Logger:     shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Addr(), app.Handler(), cfg.ShutdownTimeout.Duration, shared.WithLogger(r.logger, "component", "http"))
	r.logger.Info("starting mise", "url", "http://"+cfg.Host+":"+strconv.Itoa(cfg.Port))
	return srv.Run(ctx)
}
