package config

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			Base:              "http://localhost:6006",
			Timeout:           10,
			RefreshInterval:   intPtr(5),
			MinBackendVersion: "0.7.0",
		},
		UI: UIConfig{
			Theme:       "default",
			ShowScalars: boolPtr(true),
			OutputLines: 200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
