package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// validate runs every check and reports all failures together.
func validate(cfg *Config) error {
	var errs []string

	u, err := url.Parse(cfg.View.Base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("view.base %q must be an absolute http(s) URL", cfg.View.Base))
	}

	if cfg.View.Route != "" && !strings.HasPrefix(cfg.View.Route, "/") {
		errs = append(errs, fmt.Sprintf("view.route %q must start with \"/\"", cfg.View.Route))
	}

	if cfg.View.Timeout <= 0 {
		errs = append(errs, "view.timeout must be positive")
	}
	if cfg.View.RefreshInterval != nil && *cfg.View.RefreshInterval < 0 {
		errs = append(errs, "view.refresh_interval must not be negative")
	}

	if cfg.View.MinBackendVersion != "" {
		if _, err := semver.NewVersion(cfg.View.MinBackendVersion); err != nil {
			errs = append(errs, fmt.Sprintf("view.min_backend_version %q is not a valid version: %v", cfg.View.MinBackendVersion, err))
		}
	}

	switch cfg.UI.Theme {
	case "default", "light", "dark":
	default:
		errs = append(errs, fmt.Sprintf("ui.theme %q must be \"default\", \"light\", or \"dark\"", cfg.UI.Theme))
	}

	if cfg.UI.OutputLines <= 0 {
		errs = append(errs, "ui.output_lines must be positive")
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		errs = append(errs, fmt.Sprintf("log.level %q is not a known level", cfg.Log.Level))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Validate checks cfg after command-line overrides were applied on top of
// a loaded config.
func (c *Config) Validate() error {
	return validate(c)
}
