package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/guard"
	"github.com/zaukho/zx/internal/repositories"
	"github.com/zaukho/zx/internal/session"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tasks"
	"github.com/zaukho/zx/internal/tokens"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	api      *api.Client
	sessions *session.Manager
	gate     *guard.Guard
	store    tokens.Store
	cache    *repositories.CatalogCache
	engine   *tasks.ExportEngine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	API      *api.Client
	Sessions *session.Manager
	Gate     *guard.Guard
	Store    tokens.Store
	Cache    *repositories.CatalogCache
	Logger   *log.Logger
	Output   io.Writer
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

	var engine *tasks.ExportEngine
	if opts.API != nil {
		engine = tasks.NewExportEngine(opts.API)
	}

	return &Runner{
		config:   opts.Config,
		api:      opts.API,
		sessions: opts.Sessions,
		gate:     opts.Gate,
		store:    opts.Store,
		cache:    opts.Cache,
		engine:   engine,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, browseCommand, searchCommand, watchlistCommand,
		libraryCommand, storeCommand, profileCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth refuses authenticated-only commands when no session is live.
func (r *Runner) requireAuth(ctx context.Context, from string) error {
	if r.gate == nil {
		return fmt.Errorf("%w: session guard not initialized", shared.ErrServiceUnavailable)
	}
	if decision := r.gate.RequireAuth(ctx, from); !decision.Allowed {
		return fmt.Errorf("%w: run 'zx auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
