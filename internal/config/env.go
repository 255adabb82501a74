// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the HOSTMON_ prefix) to the CLI flag
// name it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flag   string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"ADDRESS", "address", func(c *AppConfig, v string) {
		c.Address = v
	}},
	{"PORT", "port", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Port = parsed
		}
	}},
	{"TTL", "ttl", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.TTLSeconds = parsed
		}
	}},
	{"LOG_LEVEL", "log-level", func(c *AppConfig, v string) {
		c.LogLevel = v
	}},
	{"LOG_FORMAT", "log-format", func(c *AppConfig, v string) {
		c.LogFormat = v
	}},
	{"METRICS", "metrics", func(c *AppConfig, v string) {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			c.EnableMetrics = true
		case "false", "0", "no":
			c.EnableMetrics = false
		}
	}},
}

// applyEnvOverrides applies HOSTMON_* environment variables to every setting
// whose flag was not explicitly provided on the command line.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}
