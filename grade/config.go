package grade

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/grader/internal/goal"
)

// DefaultConfigPath is the configuration file looked up by the CLI.
const DefaultConfigPath = ".grader.yaml"

// Config is the grader configuration file.
type Config struct {
	Name                  string `yaml:"name"`
	DefaultKind           Kind   `yaml:"default_kind"`
	Workers               int    `yaml:"workers"`
	MaxSimplifyIterations int    `yaml:"max_simplify_iterations"`
	CrossCheck            bool   `yaml:"cross_check"`
	CacheDir              string `yaml:"cache_dir"`
	Database              string `yaml:"database"`
	MetricsFile           string `yaml:"metrics_file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Name:                  "grader",
		DefaultKind:           KindLiteral,
		MaxSimplifyIterations: goal.DefaultMaxIterations,
	}
}

// LoadConfig reads the configuration at path. A missing file yields
// DefaultConfig; fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MaxSimplifyIterations < 1 {
		return fmt.Errorf("max_simplify_iterations must be >= 1, got %d", c.MaxSimplifyIterations)
	}
	if _, err := ParseKind(string(c.DefaultKind)); err != nil {
		return fmt.Errorf("default_kind: %w", err)
	}
	return nil
}

// WriteConfig writes c as YAML to path, replacing any existing file.
func WriteConfig(path string, c Config) error {
	d, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
