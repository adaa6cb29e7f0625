package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := c.CMS.validate(); err != nil {
		return fmt.Errorf("cms: %w", err)
	}

	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be in 0..max_conns (got %d)", d.MinConns)
	}
	if d.StatementTimeout < 0 {
		return fmt.Errorf("statement_timeout must be >= 0 (got %s)", d.StatementTimeout)
	}
	return nil
}

func (c *CMSConfig) validate() error {
	if !c.Enabled() {
		return nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required when base_url is set")
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be in 1..100 (got %d)", c.PageSize)
	}
	if c.ImportConcurrency <= 0 {
		return fmt.Errorf("import_concurrency must be > 0 (got %d)", c.ImportConcurrency)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0 (got %d)", c.MaxBodyBytes)
	}
	if c.ImportRateLimit < 0 {
		return fmt.Errorf("import_rate_limit must be >= 0 (got %d)", c.ImportRateLimit)
	}
	return nil
}

func (d *DictionaryConfig) validate() error {
	if d.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", d.DefaultPageSize)
	}
	if d.MaxPageSize < d.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", d.MaxPageSize, d.DefaultPageSize)
	}
	if d.MaxValuesPerKind <= 0 {
		return fmt.Errorf("max_values_per_kind must be > 0 (got %d)", d.MaxValuesPerKind)
	}
	if d.MaxValueLength <= 0 {
		return fmt.Errorf("max_value_length must be > 0 (got %d)", d.MaxValueLength)
	}
	return nil
}
