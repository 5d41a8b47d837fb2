package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CPPUML_DEPTH.
const EnvPrefix = "CPPUML"

// Keys lists every configuration key.
var Keys = []string{
	"parser", "depth", "relations", "format", "members", "methods",
	"extensions", "exclude", "max_file_size", "workers", "plantuml_server", "title",
}

// Loader resolves a Config with the following priority (highest first):
//  1. Flags that were explicitly set
//  2. Environment variables (CPPUML_*)
//  3. Config file (File, or .cppuml.yaml in Root)
//  4. Default values
type Loader struct {
	Root  string         // directory searched for FileName
	File  string         // explicit config file; must exist when set
	Flags *pflag.FlagSet // optional; flag names map to keys with '-' as '_'
}

// Load reads and validates the configuration.
func (l Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if l.File != "" {
		v.SetConfigFile(l.File)
	} else {
		v.SetConfigFile(filepath.Join(l.Root, FileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; a missing explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || l.File != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if l.Flags != nil {
		var bindErr error
		l.Flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isKey(key) || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("parser", d.Parser)
	v.SetDefault("depth", d.Depth)
	v.SetDefault("relations", d.Relations)
	v.SetDefault("format", d.Format)
	v.SetDefault("members", d.Members)
	v.SetDefault("methods", d.Methods)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("plantuml_server", d.PlantUMLServer)
	v.SetDefault("title", d.Title)
}

func isKey(name string) bool {
	for _, k := range Keys {
		if k == name {
			return true
		}
	}
	return false
}
