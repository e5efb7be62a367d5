package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2latex/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing md2latex.yaml.
type envConfig struct {
	ConfigPath string   // MD2LATEX_CONFIG: config file name or path
	OutputDir  string   // MD2LATEX_OUTPUT_DIR: output directory
	Languages  []string // MD2LATEX_LANGUAGES: comma-separated languages
	Template   string   // MD2LATEX_TEMPLATE: template name or path
	Engine     string   // MD2LATEX_ENGINE: TeX engine
	Timeout    string   // MD2LATEX_TIMEOUT: timeout per compiler pass
	Workers    int      // MD2LATEX_WORKERS: parallel variants
	NoCompile  bool     // MD2LATEX_NO_COMPILE: only write .tex files
	Metadata   string   // MD2LATEX_METADATA: metadata file
}

// knownEnvVars lists valid MD2LATEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2LATEX_CONFIG":     true,
	"MD2LATEX_OUTPUT_DIR": true,
	"MD2LATEX_LANGUAGES":  true,
	"MD2LATEX_TEMPLATE":   true,
	"MD2LATEX_ENGINE":     true,
	"MD2LATEX_TIMEOUT":    true,
	"MD2LATEX_WORKERS":    true,
	"MD2LATEX_NO_COMPILE": true,
	"MD2LATEX_METADATA":   true,
	"MD2LATEX_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2LATEX_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2LATEX_CONFIG"),
		OutputDir:  os.Getenv("MD2LATEX_OUTPUT_DIR"),
		Template:   os.Getenv("MD2LATEX_TEMPLATE"),
		Engine:     os.Getenv("MD2LATEX_ENGINE"),
		Timeout:    os.Getenv("MD2LATEX_TIMEOUT"),
		Metadata:   os.Getenv("MD2LATEX_METADATA"),
	}

	if langs := os.Getenv("MD2LATEX_LANGUAGES"); langs != "" {
		cfg.Languages = splitList(langs)
	}

	// Parse int for workers
	if workers := os.Getenv("MD2LATEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if v := os.Getenv("MD2LATEX_NO_COMPILE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoCompile = b
		}
	}

	return cfg
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// warnUnknownEnvVars logs warnings for unrecognized MD2LATEX_* variables.
// Helps catch typos like MD2LATEX_LANGUAGE instead of MD2LATEX_LANGUAGES.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2LATEX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Environment values override the config file; CLI flags are applied later
// via mergeFlags, so: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if len(env.Languages) > 0 {
		cfg.Languages = env.Languages
	}
	if env.Template != "" {
		cfg.Template = env.Template
	}
	if env.Engine != "" {
		cfg.Compile.Engine = env.Engine
	}
	if env.Timeout != "" {
		cfg.Compile.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.NoCompile {
		disabled := false
		cfg.Compile.Enabled = &disabled
	}
	if env.Metadata != "" {
		cfg.Metadata = env.Metadata
	}
}
