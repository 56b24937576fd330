package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-textile/internal/config"
)

// envConfig holds configuration from TEXTILE_* environment variables.
type envConfig struct {
	ConfigPath   string // TEXTILE_CONFIG: config file name or path
	Dialect      string // TEXTILE_DIALECT: xhtml or html5
	Style        string // TEXTILE_STYLE: standalone stylesheet name
	InputDir     string // TEXTILE_INPUT_DIR: default input directory
	OutputDir    string // TEXTILE_OUTPUT_DIR: default output directory
	ImageTimeout string // TEXTILE_IMAGE_TIMEOUT: probe timeout
	Workers      int    // TEXTILE_WORKERS: parallel workers
}

// knownEnvVars lists valid TEXTILE_* environment variables.
var knownEnvVars = map[string]bool{
	"TEXTILE_CONFIG":        true,
	"TEXTILE_DIALECT":       true,
	"TEXTILE_STYLE":         true,
	"TEXTILE_INPUT_DIR":     true,
	"TEXTILE_OUTPUT_DIR":    true,
	"TEXTILE_IMAGE_TIMEOUT": true,
	"TEXTILE_WORKERS":       true,
}

// loadEnvConfig reads the recognized TEXTILE_* values.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:   getenv("TEXTILE_CONFIG"),
		Dialect:      getenv("TEXTILE_DIALECT"),
		Style:        getenv("TEXTILE_STYLE"),
		InputDir:     getenv("TEXTILE_INPUT_DIR"),
		OutputDir:    getenv("TEXTILE_OUTPUT_DIR"),
		ImageTimeout: getenv("TEXTILE_IMAGE_TIMEOUT"),
	}

	// Invalid worker counts are ignored.
	if workers := getenv("TEXTILE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized TEXTILE_* variables.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "TEXTILE_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Dialect != "" {
		cfg.Textile.Dialect = env.Dialect
	}
	if env.Style != "" {
		cfg.Page.Style = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ImageTimeout != "" {
		cfg.Images.Timeout = env.ImageTimeout
	}
}
