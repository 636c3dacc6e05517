// Package config handles loading grouptodo.toml configuration files.
//
// Settings merge in precedence order: environment variables (optionally via
// a .env file) override the project file, which overrides the user-level
// file, which overrides the baked-in reference defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/grouptodo/gtd/internal/paths"
)

// Reference deployment defaults.
const (
	DefaultAPIURL = "https://grouptodo.freeddns.org"
)

// Environment variable names recognized by Load.
const (
	EnvAPIURL         = "GROUPTODO_API_URL"
	EnvGoogleClientID = "GROUPTODO_GOOGLE_CLIENT_ID"
)

// Config represents the grouptodo.toml configuration file.
type Config struct {
	API    API    `toml:"api"`
	Output Output `toml:"output"`
}

// API contains backend connection settings.
type API struct {
	// URL is the backend base URL.
	URL string `toml:"url"`

	// GoogleClientID is the OAuth client identifier used to build the
	// consent URL for login.
	GoogleClientID string `toml:"google-client-id"`
}

// Output contains terminal output settings.
type Output struct {
	// Color controls ANSI color usage: auto, always, or never.
	Color string `toml:"color"`
}

// Load loads configuration from the user-level config file, a grouptodo.toml
// in workDir, a .env file, and the environment. Missing files are not an
// error.
func Load(workDir string) (*Config, error) {
	_ = godotenv.Load() // ok if missing

	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(workDir, "grouptodo.toml"))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	applyEnv(merged)
	applyDefaults(merged)
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.API.URL = mergeString(projectMeta.IsDefined("api", "url"), projectCfg.API.URL, globalCfg.API.URL)
	merged.API.GoogleClientID = mergeString(projectMeta.IsDefined("api", "google-client-id"), projectCfg.API.GoogleClientID, globalCfg.API.GoogleClientID)
	merged.Output.Color = mergeString(projectMeta.IsDefined("output", "color"), projectCfg.Output.Color, globalCfg.Output.Color)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func applyEnv(cfg *Config) {
	if value := strings.TrimSpace(os.Getenv(EnvAPIURL)); value != "" {
		cfg.API.URL = value
	}
	if value := strings.TrimSpace(os.Getenv(EnvGoogleClientID)); value != "" {
		cfg.API.GoogleClientID = value
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.URL == "" {
		cfg.API.URL = DefaultAPIURL
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
}
