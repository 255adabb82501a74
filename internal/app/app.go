// Package app wires configuration, the collection pipeline, the snapshot
// cache and the HTTP server into a runnable daemon.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/hostmon/internal/cache"
	"github.com/agbru/hostmon/internal/cli"
	"github.com/agbru/hostmon/internal/config"
	apperrors "github.com/agbru/hostmon/internal/errors"
	"github.com/agbru/hostmon/internal/logging"
	"github.com/agbru/hostmon/internal/procfs"
	"github.com/agbru/hostmon/internal/server"
	"github.com/agbru/hostmon/internal/stats"
	"github.com/agbru/hostmon/internal/tui"
	"github.com/agbru/hostmon/internal/ui"
)

// Application represents the hostmon daemon instance.
type Application struct {
	Config    config.AppConfig
	Source    stats.CounterSource
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource sets a custom counter source, bypassing the platform check.
func WithSource(s stats.CounterSource) AppOption {
	return func(a *Application) { a.Source = s }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "hostmon"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the daemon until the context is canceled or a signal arrives.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	ui.InitTheme(a.Config.NoColor)
	logger := a.newLogger()

	if a.Source == nil {
		sampler, err := procfs.New()
		if err != nil {
			logger.Error("host counter source unavailable", err)
			return apperrors.ExitErrorGeneric
		}
		a.Source = sampler
	}

	collector := stats.NewCollector(a.Source)
	statsCache := cache.New(a.Config.TTL(), collector.Collect)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Once {
		return cli.RunOnce(ctx, out, a.ErrWriter, collector.Collect, a.Config)
	}
	if a.Config.TUIMode {
		return tui.Run(ctx, statsCache, a.Config, Version)
	}

	srv := server.New(a.Config, statsCache, logger)

	logger.Info("hostmon starting",
		logging.String("addr", a.Config.ListenAddr()),
		logging.Int("ttl_seconds", a.Config.TTLSeconds))

	if err := srv.Run(ctx); err != nil {
		if apperrors.IsContextError(err) {
			return apperrors.ExitErrorCanceled
		}
		logger.Error("server terminated", err)
		return apperrors.ExitErrorGeneric
	}

	logger.Info("hostmon stopped")
	return apperrors.ExitSuccess
}

// newLogger builds the zerolog-backed logger from the configured level and
// format.
func (a *Application) newLogger() logging.Logger {
	level, err := zerolog.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if a.Config.LogFormat == "json" {
		zl = zerolog.New(os.Stderr)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zl = zl.Level(level).With().Timestamp().Logger()
	return logging.NewZerologAdapter(zl)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// StartupExitCode maps a New() error to a process exit code. Validation
// failures get the dedicated config exit code; anything else is generic.
func StartupExitCode(err error) int {
	var cfgErr apperrors.ConfigError
	if errors.As(err, &cfgErr) {
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitErrorGeneric
}
