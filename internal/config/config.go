// Package config loads runtime configuration from, in increasing order of
// precedence: built-in defaults, a YAML file, MNEMO_* environment
// variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mnemolabs/mnemo/internal/domain"
)

const envPrefix = "MNEMO_"

// Config is the application configuration.
type Config struct {
	Addr   string          `koanf:"addr" validate:"required"`
	DBPath string          `koanf:"db" validate:"required"`
	Study  domain.Settings `koanf:"study"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Addr:   ":8080",
		DBPath: "mnemo.db",
		Study:  domain.DefaultSettings(),
	}
}

// Load layers the YAML file (if path is non-empty), environment variables
// and flags over the defaults, then validates the result.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// MNEMO_STUDY_REVIEWS_PER_DAY -> study.reviews_per_day
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.Replace(key, "_", ".", 1)
			return key, value
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
