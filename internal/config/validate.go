package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))

	switch c.Store.Backend {
	case BackendSanity:
		if err := c.Sanity.validate(); err != nil {
			return fmt.Errorf("sanity: %w", err)
		}
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q (got %q)", BackendSanity, BackendPostgres, c.Store.Backend)
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return nil
}

func (s *SanityConfig) validate() error {
	if s.ProjectID == "" && s.BaseURL == "" {
		return fmt.Errorf("project_id is required")
	}
	if s.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if s.WriteToken == "" {
		return fmt.Errorf("write_token is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	if s.RequestInterval < 0 {
		return fmt.Errorf("request_interval must be >= 0 (got %v)", s.RequestInterval)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("max_conns must be >= 1 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be between 0 and max_conns (got %d)", d.MinConns)
	}
	return nil
}

func (i *ImportConfig) validate() error {
	if i.PreviewCount < 0 {
		return fmt.Errorf("preview_count must be >= 0 (got %d)", i.PreviewCount)
	}
	if i.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", i.Timeout)
	}
	i.ExcludedTitles = ParseList(strings.Join(i.ExcludedTitles, ","))
	return nil
}

// ParseList splits a comma-separated list, trimming blanks.
func ParseList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// APIBaseURL returns the Sanity API root, derived from the project id unless overridden.
func (s SanityConfig) APIBaseURL() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.api.sanity.io", s.ProjectID)
}
