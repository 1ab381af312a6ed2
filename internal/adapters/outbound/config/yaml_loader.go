package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

const fileName = ".mcvalidate.yaml"

// YAMLLoader reads .mcvalidate.yaml and applies environment overrides.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .mcvalidate.yaml from dir. A missing file yields the
// defaults; environment variables override either way.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

func applyEnv(cfg *domain.Config) {
	if dir := os.Getenv("VALIDATOR_CACHE_DIR"); dir != "" {
		cfg.CacheDir = dir
	}
	if age := os.Getenv("VALIDATOR_CACHE_MAX_AGE"); age != "" {
		if days, err := strconv.Atoi(age); err == nil && days >= 0 {
			cfg.MaxAgeDays = days
		}
	}
	switch strings.ToLower(os.Getenv("VALIDATOR_OFFLINE")) {
	case "1", "true", "yes":
		cfg.Offline = true
	}
}
