package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/gitexplore/github"
)

// EnvPrefix prefixes environment overrides, e.g. GITEXPLORE_GITHUB_TOKEN
const EnvPrefix = "GITEXPLORE"

// Load loads the configuration. Every key has a default, so a missing config
// file is only an error when configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gitexplore"))
		}

		// Check /etc
		v.AddConfigPath("/etc/gitexplore/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Favorites.Path = expandHome(cfg.Favorites.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// GitHub defaults
	v.SetDefault("github.base_url", github.DefaultBaseURL)
	v.SetDefault("github.user_agent", github.DefaultUserAgent)
	v.SetDefault("github.api_version", github.DefaultAPIVersion)
	v.SetDefault("github.accept", github.DefaultAccept)
	v.SetDefault("github.token", "")
	v.SetDefault("github.timeout", "0s")

	// Favorites defaults
	v.SetDefault("favorites.path", "~/.gitexplore/favorites.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.GitHub.BaseURL == "" {
		return fmt.Errorf("github.base_url is required")
	}
	u, err := url.Parse(cfg.GitHub.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid github.base_url: %s (must be an http or https URL)", cfg.GitHub.BaseURL)
	}

	if cfg.GitHub.Timeout < 0 {
		return fmt.Errorf("github.timeout must not be negative")
	}

	if cfg.Favorites.Path == "" {
		return fmt.Errorf("favorites.path is required")
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter %q has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// ResolveFilter returns the expression for a --filter argument. "@name"
// refers to a named filter from the config; anything else is used as is.
func (c *Config) ResolveFilter(arg string) (string, error) {
	name, ok := strings.CutPrefix(strings.TrimSpace(arg), "@")
	if !ok {
		return arg, nil
	}
	// viper lowercases map keys
	expression, found := c.Filters[strings.ToLower(name)]
	if !found {
		return "", fmt.Errorf("filter %q not found in config", name)
	}
	return expression, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
