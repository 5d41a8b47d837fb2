// Package config loads cppuml settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phobologic/cppuml/internal/lang"
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/parse"
	"github.com/phobologic/cppuml/internal/render"
	"github.com/phobologic/cppuml/internal/source"
)

// FileName is the config file looked up in the analysed root.
const FileName = ".cppuml.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete cppuml configuration.
type Config struct {
	Parser         string   `yaml:"parser" mapstructure:"parser"`       // "heuristic" or "treesitter"
	Depth          int      `yaml:"depth" mapstructure:"depth"`         // traversal depth from the focus type
	Relations      []string `yaml:"relations" mapstructure:"relations"` // relation kinds, empty means all
	Format         string   `yaml:"format" mapstructure:"format"`       // plantuml, dot or toon
	Members        bool     `yaml:"members" mapstructure:"members"`
	Methods        bool     `yaml:"methods" mapstructure:"methods"`
	Extensions     []string `yaml:"extensions" mapstructure:"extensions"`
	Exclude        []string `yaml:"exclude" mapstructure:"exclude"` // glob patterns
	MaxFileSize    int64    `yaml:"max_file_size" mapstructure:"max_file_size"`
	Workers        int      `yaml:"workers" mapstructure:"workers"` // 0 means GOMAXPROCS
	PlantUMLServer string   `yaml:"plantuml_server" mapstructure:"plantuml_server"`
	Title          string   `yaml:"title,omitempty" mapstructure:"title"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parser:         parse.BackendHeuristic,
		Depth:          1,
		Relations:      []string{"all"},
		Format:         string(render.FormatPlantUML),
		Members:        true,
		Methods:        true,
		Extensions:     lang.Extensions(),
		Exclude:        []string{},
		MaxFileSize:    source.DefaultMaxFileSize,
		Workers:        0,
		PlantUMLServer: "https://www.plantuml.com/plantuml",
	}
}

// Kinds parses Relations.
func (c *Config) Kinds() (model.KindSet, error) {
	return model.ParseKinds(c.Relations)
}

// SourceOptions converts the discovery and loading keys.
func (c *Config) SourceOptions() source.Options {
	opts := source.Options{MaxFileSize: c.MaxFileSize, Workers: c.Workers}
	opts.Extensions = c.Extensions
	opts.Exclude = c.Exclude
	return opts
}

// Validate checks every key and joins all problems into one error that
// wraps ErrInvalid.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := parse.New(cfg.Parser); err != nil {
		errs = append(errs, err)
	}
	if cfg.Depth < 0 {
		errs = append(errs, fmt.Errorf("depth must be >= 0, got %d", cfg.Depth))
	}
	if _, err := cfg.Kinds(); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, err)
	}
	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("extension %q must start with a dot", ext))
		}
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
