package app

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/config"
	"github.com/bihaanbhojpuri/bihaan-sync/pkg/ctxutil"
)

// Flags are the command-line options every command shares.
type Flags struct {
	ConfigPath string
	DryRun     bool
}

// RegisterFlags binds the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "path to YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	fs.BoolVar(&f.DryRun, "dry-run", false, "build records and log a preview without writing")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nEnvironment:\n%s", config.Usage())
	}
	return f
}

// Runtime is what a command needs once configuration is loaded.
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
	Store  wpimport.PostStore
	RunID  string

	closeStore func()
}

// Start loads configuration, initializes the logger and opens the store.
// CLI flags override config.
func Start(ctx context.Context, name string, f *Flags) (*Runtime, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.ConfigPath != "" {
		cfg, err = config.LoadFrom(f.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if f.DryRun {
		cfg.Import.DryRun = true
	}

	runID := ctxutil.NewRunID()
	logger := NewLogger(cfg.Log).With("cmd", name)

	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("run_id", runID),
		slog.String("backend", cfg.Store.Backend),
		slog.Bool("dry_run", cfg.Import.DryRun),
	)

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		RunID:      runID,
		closeStore: closeStore,
	}, nil
}

// Context returns a context carrying the run id that is cancelled on
// SIGINT/SIGTERM or after the import timeout.
func (r *Runtime) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, r.Config.Import.Timeout)
	return ctxutil.WithRunID(ctx, r.RunID), func() {
		cancel()
		stop()
	}
}

// Close releases the store.
func (r *Runtime) Close() {
	r.closeStore()
}

// Excluded builds the title denylist from config.
func (r *Runtime) Excluded() wpimport.TitleFilter {
	return wpimport.NewTitleFilter(r.Config.Import.ExcludedTitles)
}

// Finish logs the summary and returns the process exit code.
func (r *Runtime) Finish(ctx context.Context, summary wpimport.Summary, err error) int {
	summary.Log(ctx, r.Logger)
	if err != nil {
		r.Logger.ErrorContext(ctx, "job failed", slog.String("error", err.Error()))
		return 1
	}
	if summary.HasErrors() {
		r.Logger.WarnContext(ctx, "job completed with errors", slog.Int("failed", summary.Failed))
		return 1
	}
	r.Logger.InfoContext(ctx, "job completed successfully")
	return 0
}

// Fatal logs err and exits 1. Used before a Runtime exists.
func Fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
