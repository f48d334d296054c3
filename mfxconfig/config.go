// Package mfxconfig loads the toolkit's own configuration: output
// formatting, tab width, and document size limits, layered as defaults,
// then a file on disk. A .env file, when present, is loaded into the
// process environment, but no Config field is read from the environment.
// TabWidth is loaded and validated only; the lexer counts a tab as one
// column.
package mfxconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrValidation is returned when a loaded configuration fails validation.
var ErrValidation = errors.New("mfxconfig: validation failed")

// DefaultPath is the config file name looked up relative to the working
// directory when no explicit path is given.
const DefaultPath = ".mfx.yaml"

// Config controls the CLI's output and safety limits.
type Config struct {
	OutputFormat     string `yaml:"output_format"`
	TabWidth         int    `yaml:"tab_width"`
	MaxDocumentBytes int    `yaml:"max_document_bytes"`
	Color            bool   `yaml:"color"`
}

func defaultConfig() *Config {
	return &Config{
		OutputFormat:     "text",
		TabWidth:         4,
		MaxDocumentBytes: 1 << 20,
		Color:            true,
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. Environment variables from a .env file in the
// working directory (if present) are loaded first, though this toolkit
// has no per-field ${VAR} expansion to run over the result — its config
// carries no connection strings or other environment-shaped values.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("mfxconfig: %w", err)
	}

	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mfxconfig: reading %s: %w", path, err)
	}

	config := defaultConfig()
	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("mfxconfig: parsing %s: %w", path, err)
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validate(c *Config) error {
	switch c.OutputFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: output_format %q must be json or text", ErrValidation, c.OutputFormat)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("%w: tab_width must be positive, got %d", ErrValidation, c.TabWidth)
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("%w: max_document_bytes must be positive, got %d", ErrValidation, c.MaxDocumentBytes)
	}
	return nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
