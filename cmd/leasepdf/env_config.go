package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-leasepdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // LEASEPDF_CONFIG: config file name or path
	RelayURL   string // LEASEPDF_RELAY_URL: trusted image relay
	Timeout    string // LEASEPDF_TIMEOUT: per-attempt image timeout
	OutputDir  string // LEASEPDF_OUTPUT_DIR: default output directory
	Clauses    string // LEASEPDF_CLAUSES: clause set name
}

// knownEnvVars lists valid LEASEPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LEASEPDF_CONFIG":     true,
	"LEASEPDF_RELAY_URL":  true,
	"LEASEPDF_TIMEOUT":    true,
	"LEASEPDF_OUTPUT_DIR": true,
	"LEASEPDF_CLAUSES":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("LEASEPDF_CONFIG"),
		RelayURL:   getenv("LEASEPDF_RELAY_URL"),
		Timeout:    getenv("LEASEPDF_TIMEOUT"),
		OutputDir:  getenv("LEASEPDF_OUTPUT_DIR"),
		Clauses:    getenv("LEASEPDF_CLAUSES"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized LEASEPDF_* variables.
// Helps catch typos like LEASEPDF_RELAY instead of LEASEPDF_RELAY_URL.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "LEASEPDF_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment variables over the config file.
// CLI flags are applied afterwards by mergeFlags, giving
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.RelayURL != "" {
		cfg.Relay.URL = env.RelayURL
	}
	if env.Timeout != "" {
		cfg.Relay.Timeout = env.Timeout
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Clauses != "" {
		cfg.Clauses.Name = env.Clauses
	}
}
