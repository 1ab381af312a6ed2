package domain

import "fmt"

// Config controls cache behavior and output defaults. Loaded from
// .mcvalidate.yaml with env-var overrides; zero value is not usable,
// start from DefaultConfig.
type Config struct {
	CacheDir   string `yaml:"cache_dir"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Offline    bool   `yaml:"offline"`
	Format     string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults. CacheDir is left empty;
// the cache adapter resolves the platform default (XDG) when unset.
func DefaultConfig() Config {
	return Config{
		MaxAgeDays: 7,
		Format:     "text",
	}
}

// Validate catches typos in user-supplied config before it is used.
func (c Config) Validate() error {
	if c.MaxAgeDays < 0 {
		return fmt.Errorf("max_age_days must be >= 0, got %d", c.MaxAgeDays)
	}
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("format must be \"text\" or \"json\", got %q", c.Format)
	}
	return nil
}
