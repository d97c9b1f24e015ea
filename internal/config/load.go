package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SCRIBE_"

// Load reads configuration from a TOML file, applies SCRIBE_*
// environment overrides, and validates the result. A missing file is
// not an error; defaults are used. An empty path skips the file and
// applies only environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables. Empty values
// are ignored; malformed values are errors rather than silent skips.
func applyEnv(cfg *Config) error {
	if err := envInt("HISTORY_MAX_ENTRIES", &cfg.History.MaxEntries); err != nil {
		return err
	}
	if err := envDuration("HISTORY_COALESCE_WINDOW", &cfg.History.CoalesceWindow); err != nil {
		return err
	}
	if err := envInt("SEARCH_CHUNK_SIZE", &cfg.Search.ChunkSize); err != nil {
		return err
	}
	if err := envInt("SEARCH_OVERLAP", &cfg.Search.Overlap); err != nil {
		return err
	}
	return nil
}

func envInt(name string, dst *int) error {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, name, err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *Duration) error {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || val == "" {
		return nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, name, err)
	}
	*dst = Duration(d)
	return nil
}
