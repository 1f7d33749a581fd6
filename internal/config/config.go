package config

import "time"

type Config struct {
	View ViewConfig `yaml:"view" toml:"view"`
	UI   UIConfig   `yaml:"ui" toml:"ui"`
	Log  LogConfig  `yaml:"log" toml:"log"`
}

type ViewConfig struct {
	Base              string `yaml:"base" toml:"base"`
	Route             string `yaml:"route" toml:"route"`
	Timeout           int    `yaml:"timeout" toml:"timeout"`
	RefreshInterval   *int   `yaml:"refresh_interval" toml:"refresh_interval"`
	MinBackendVersion string `yaml:"min_backend_version" toml:"min_backend_version"`
}

type UIConfig struct {
	Theme       string `yaml:"theme" toml:"theme"`
	ShowScalars *bool  `yaml:"show_scalars" toml:"show_scalars"`
	OutputLines int    `yaml:"output_lines" toml:"output_lines"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// RequestTimeout is the per-request deadline for backend fetches.
func (v ViewConfig) RequestTimeout() time.Duration {
	return time.Duration(v.Timeout) * time.Second
}

// Refresh is the auto refresh period. Zero disables refreshing.
func (v ViewConfig) Refresh() time.Duration {
	if v.RefreshInterval == nil {
		return 0
	}
	return time.Duration(*v.RefreshInterval) * time.Second
}
