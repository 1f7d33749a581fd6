package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load discovers a config file starting from the working directory, merges
// it with defaults, applies environment overrides and validates the result.
// A non-empty explicit path skips discovery.
func Load(explicit string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd, explicit)
}

// LoadFrom is Load with dir used for discovery instead of os.Getwd.
func LoadFrom(dir, explicit string) (*Config, error) {
	cfg := DefaultConfig()

	path := explicit
	if path == "" {
		path = discoverConfigPath(dir)
	}

	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigPath returns the first existing file of the discovery chain,
// or "" when none exists and defaults apply.
func discoverConfigPath(dir string) string {
	candidates := []string{
		filepath.Join(dir, "guildview.yaml"),
		filepath.Join(dir, "guildview.toml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "guildview", "config.yaml"),
			filepath.Join(home, ".config", "guildview", "config.toml"),
		)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadFromFile decodes a YAML or TOML config file, chosen by extension.
func loadFromFile(path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	}

	return &cfg, nil
}

// merge overlays override onto base. Scalars override when non-zero,
// pointer fields when non-nil.
func merge(base *Config, override *Config) {
	// View
	if override.View.Base != "" {
		base.View.Base = override.View.Base
	}
	if override.View.Route != "" {
		base.View.Route = override.View.Route
	}
	if override.View.Timeout != 0 {
		base.View.Timeout = override.View.Timeout
	}
	if override.View.RefreshInterval != nil {
		base.View.RefreshInterval = override.View.RefreshInterval
	}
	if override.View.MinBackendVersion != "" {
		base.View.MinBackendVersion = override.View.MinBackendVersion
	}

	// UI
	if override.UI.Theme != "" {
		base.UI.Theme = override.UI.Theme
	}
	if override.UI.ShowScalars != nil {
		base.UI.ShowScalars = override.UI.ShowScalars
	}
	if override.UI.OutputLines != 0 {
		base.UI.OutputLines = override.UI.OutputLines
	}

	// Log
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		base.Log.File = override.Log.File
	}
}

// applyEnvOverrides applies VIEW_BASE and GUILDVIEW_* variables. They are
// read once, at load, and hold for the life of the process.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIEW_BASE"); v != "" {
		cfg.View.Base = v
	}
	if v := os.Getenv("GUILDVIEW_VIEW_BASE"); v != "" {
		cfg.View.Base = v
	}
	if v := os.Getenv("GUILDVIEW_ROUTE"); v != "" {
		cfg.View.Route = v
	}
	if v := os.Getenv("GUILDVIEW_REFRESH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.View.RefreshInterval = &n
		} else {
			fmt.Fprintf(os.Stderr, "warning: GUILDVIEW_REFRESH=%q is not a valid integer, ignoring\n", v)
		}
	}
	if v := os.Getenv("GUILDVIEW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
