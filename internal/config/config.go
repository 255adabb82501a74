// Package config defines the daemon configuration and its resolution chain:
// command-line flags first, then HOSTMON_* environment variables, then
// static defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	apperrors "github.com/agbru/hostmon/internal/errors"
)

// EnvPrefix is prepended to every environment variable key consulted by the
// override chain.
const EnvPrefix = "HOSTMON_"

// Defaults for the configuration surface.
const (
	DefaultAddress    = "::"
	DefaultPort       = 8080
	DefaultTTLSeconds = 10
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Server hardening defaults. These are not flag-configurable; embedders that
// need different values construct the server directly.
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// AppConfig holds the resolved daemon configuration.
type AppConfig struct {
	// Address is the bind address; "::" listens on both IPv4 and IPv6.
	Address string
	// Port is the HTTP listen port.
	Port int
	// TTLSeconds bounds the snapshot cache staleness, in whole seconds.
	TTLSeconds int
	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string
	// LogFormat selects console or json output.
	LogFormat string
	// EnableMetrics controls the /metrics Prometheus endpoint.
	EnableMetrics bool
	// Once collects a single snapshot, prints it to stdout and exits
	// instead of serving HTTP.
	Once bool
	// TUIMode renders a live terminal dashboard instead of serving HTTP.
	TUIMode bool
	// NoColor disables ANSI colors in console output.
	NoColor bool
	// Output is an optional file path the -once report is also written to.
	Output string
	// Quiet reduces the -once report to a single machine-friendly line.
	Quiet bool
	// Version requests printing the version and exiting.
	Version bool
}

// TTL returns the cache staleness threshold as a duration.
func (c AppConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ListenAddr returns the address:port string to bind, with IPv6 literals
// bracketed.
func (c AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// ParseConfig parses command-line arguments into an AppConfig, applying
// environment overrides for flags that were not explicitly set, then
// validating the result.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, excluding the program name.
//   - errWriter: Destination for usage and error output.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Address:       DefaultAddress,
		Port:          DefaultPort,
		TTLSeconds:    DefaultTTLSeconds,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		EnableMetrics: true,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.StringVar(&cfg.Address, "address", cfg.Address, "server bind address (supports IPv4 and IPv6)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.IntVar(&cfg.TTLSeconds, "ttl", cfg.TTLSeconds, "snapshot cache TTL in seconds")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	fs.BoolVar(&cfg.EnableMetrics, "metrics", cfg.EnableMetrics, "serve Prometheus metrics on /metrics")
	fs.BoolVar(&cfg.Once, "once", false, "print one snapshot to stdout and exit")
	fs.BoolVar(&cfg.TUIMode, "tui", false, "render a live terminal dashboard instead of serving HTTP")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	fs.StringVar(&cfg.Output, "output", "", "write the -once report to a file as well")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "single-line output in -once mode")
	fs.BoolVar(&cfg.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return apperrors.NewConfigError("invalid port %d: must be within 1-65535", c.Port)
	}
	if c.TTLSeconds < 1 {
		return apperrors.NewConfigError("invalid ttl %d: must be at least 1 second", c.TTLSeconds)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return apperrors.NewConfigError("invalid log format %q", c.LogFormat)
	}
	if c.Once && c.TUIMode {
		return apperrors.NewConfigError("-once and -tui are mutually exclusive")
	}
	return nil
}
