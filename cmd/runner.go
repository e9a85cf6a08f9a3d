package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mise/internal/auth"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/planner"
	"github.com/desertthunder/mise/internal/repositories"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/desertthunder/mise/internal/shopping"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	ownsDB     bool
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // Opened from the config on first use when nil
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Before loads the configuration file named by --config when it exists.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.configPath = path
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, userCommand, recipeCommand, planCommand, shopCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	r.ownsDB = true
	return db, nil
}

// deps wires the repositories and services a command needs.
type deps struct {
	users    *repositories.UserRepository
	recipes  *repositories.RecipeRepository
	plans    *repositories.MealPlanRepository
	accounts *auth.Service
	planner  *planner.Service
	shopping *shopping.Aggregator
}

func (r *Runner) deps() (*deps, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	users := repositories.NewUserRepository(db)
	plans := repositories.NewMealPlanRepository(db)
	return &deps{
		users:    users,
		recipes:  repositories.NewRecipeRepository(db),
		plans:    plans,
		accounts: auth.NewService(users, shared.WithLogger(r.logger, "component", "auth")),
		planner:  planner.NewService(plans, r.config.Planner.StrictDates),
		shopping: shopping.NewAggregator(plans),
	}, nil
}

func (d *deps) lookupUser(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: --user is required", shared.ErrMissingArgument)
	}
	return d.users.GetByEmail(ctx, email)
}

// dateRange reads --start and --end. Start defaults to today and end to six days after start.
func dateRange(cmd *cli.Command) (models.Date, models.Date, error) {
	start := models.Today()
	if s := cmd.String("start"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("%w: --start: %v", shared.ErrInvalidArgument, err)
		}
		start = d
	}

	end := start.AddDays(6)
	if s := cmd.String("end"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("%w: --end: %v", shared.ErrInvalidArgument, err)
		}
		end = d
	}

	if start.After(end) {
		return models.Date{}, models.Date{}, fmt.Errorf("%w: start %s is after end %s", shared.ErrInvalidArgument, start, end)
	}
	return start, end, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable renders rows as a bordered [table.Table].
func (r *Runner) writeTable(headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return r.writePlain("%s\n", t.Render())
}
