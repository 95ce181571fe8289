// Package config resolves the application's configuration once at startup.
//
// All reads and writes of process environment variables happen here. The
// rest of the program receives an immutable Config value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"websql/internal/log"
	"websql/internal/plugin"
)

const (
	AppID         = "io.websql.datacompare"
	AppTitle      = "WebSQL Data Compare"
	LogFileName   = "websql-debug.log"
	EnvLogLevel   = "WEBSQL_LOG"
	EnvUpdateURL  = "WEBSQL_UPDATE_ENDPOINT"
	EnvUpdateFreq = "WEBSQL_UPDATE_INTERVAL"

	// DefaultUpdateInterval matches how often the front end polled for updates.
	DefaultUpdateInterval = 4 * time.Hour
)

// Build-time defaults, set with -ldflags "-X websql/internal/config.UpdateEndpoint=...".
var (
	UpdateEndpoint  = ""
	UpdatePublicKey = ""
)

// EnvVar is one environment assignment applied before the shell starts.
type EnvVar struct {
	Key   string
	Value string
}

// RenderEnvironment is applied to every build. It forces software
// compositing in the embedded renderer, which misbehaves on virtualised
// display backends such as WSLg.
var RenderEnvironment = []EnvVar{
	{Key: "WEBKIT_DISABLE_COMPOSITING_MODE", Value: "1"},
}

// UpdateConfig configures the updater plugin.
type UpdateConfig struct {
	Endpoint  string
	PublicKey string // base64 ed25519 public key
	Interval  time.Duration
}

// Config is the resolved, immutable application configuration.
type Config struct {
	AppID       string
	Title       string
	Version     string
	HomeDir     string // empty when no home variable is set
	LogPath     string
	LogLevel    log.Level
	Environment []EnvVar
	Plugins     plugin.Set
	Update      UpdateConfig
	// FSScope lists the roots the filesystem plugin may touch.
	FSScope []string
	// Warnings collects non-fatal problems found while loading.
	Warnings []string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// HomeVars returns the home-directory variables to consult, in order.
func HomeVars(goos string) []string {
	if goos == "windows" {
		return []string{"USERPROFILE", "HOME"}
	}
	return []string{"HOME", "USERPROFILE"}
}

// HomeDir returns the first non-empty home variable, or "".
func HomeDir(lookup LookupFunc, goos string) string {
	for _, key := range HomeVars(goos) {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// ResolveLogPath returns <home>/websql-debug.log, falling back to the
// current directory when no home variable is set.
func ResolveLogPath(lookup LookupFunc, goos string) string {
	home := HomeDir(lookup, goos)
	if home == "" {
		home = "."
	}
	return filepath.Join(home, LogFileName)
}

// Load builds a Config from the given environment lookup.
func Load(version string, lookup LookupFunc, goos string) Config {
	cfg := Config{
		AppID:       AppID,
		Title:       AppTitle,
		Version:     version,
		HomeDir:     HomeDir(lookup, goos),
		LogPath:     ResolveLogPath(lookup, goos),
		Environment: append([]EnvVar(nil), RenderEnvironment...),
		Plugins:     plugin.VariantFull,
		Update: UpdateConfig{
			Endpoint:  UpdateEndpoint,
			PublicKey: UpdatePublicKey,
			Interval:  DefaultUpdateInterval,
		},
	}

	level, _ := lookup(EnvLogLevel)
	cfg.LogLevel = log.ParseLevel(level)

	if v, ok := lookup(EnvUpdateURL); ok && v != "" {
		cfg.Update.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvUpdateFreq); ok && v != "" {
		d, err := time.ParseDuration(v)
		switch {
		case err != nil:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %v", EnvUpdateFreq, err))
		case d < time.Minute:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: %s is below one minute", EnvUpdateFreq, d))
		default:
			cfg.Update.Interval = d
		}
	}

	if cfg.HomeDir != "" {
		cfg.FSScope = []string{cfg.HomeDir}
	}
	return cfg
}

// FromEnvironment loads the Config from the real process environment.
func FromEnvironment(version string) Config {
	return Load(version, os.LookupEnv, runtime.GOOS)
}

// Apply performs the environment assignments. It keeps going after a
// failure and returns the first error seen.
func (c Config) Apply(setenv func(key, value string) error) error {
	var first error
	for _, e := range c.Environment {
		if err := setenv(e.Key, e.Value); err != nil && first == nil {
			first = fmt.Errorf("set %s: %w", e.Key, err)
		}
	}
	return first
}
