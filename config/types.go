package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	Filters   FilterConfig    `mapstructure:"filters"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// GitHubConfig holds API connection details
type GitHubConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	UserAgent  string        `mapstructure:"user_agent"`
	APIVersion string        `mapstructure:"api_version"`
	Accept     string        `mapstructure:"accept"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// FavoritesConfig locates the favorites database
type FavoritesConfig struct {
	Path string `mapstructure:"path"`
}

// FilterConfig contains named filter expressions, referenced as @name
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	// File receives logs from the interactive UI, which cannot log to stderr
	File string `mapstructure:"file"`
}
