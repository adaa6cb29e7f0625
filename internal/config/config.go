package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	CMS        CMSConfig        `yaml:"cms"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// StatementTimeout bounds every statement server-side; 0 leaves the server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
	ApplicationName  string        `yaml:"application_name"  env:"DATABASE_APPLICATION_NAME"  env-default:"polyglot-dictionary"`
}

// AuthConfig holds the admin token settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"polyglot-dictionary"`
	// AdminRole is the role claim required on mutating routes.
	AdminRole      string        `yaml:"admin_role"       env:"AUTH_ADMIN_ROLE"       env-default:"admin"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	// ClockSkew is the leeway allowed when checking token times.
	ClockSkew time.Duration `yaml:"clock_skew" env:"AUTH_CLOCK_SKEW" env-default:"30s"`
}

// CMSConfig holds headless-CMS client settings.
type CMSConfig struct {
	BaseURL           string        `yaml:"base_url"           env:"CMS_BASE_URL"`
	APIKey            string        `yaml:"api_key"            env:"CMS_API_KEY"`
	Endpoint          string        `yaml:"endpoint"           env:"CMS_ENDPOINT"           env-default:"words"`
	Timeout           time.Duration `yaml:"timeout"            env:"CMS_TIMEOUT"            env-default:"10s"`
	RetryDelay        time.Duration `yaml:"retry_delay"        env:"CMS_RETRY_DELAY"        env-default:"500ms"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"     env:"CMS_MAX_BODY_BYTES"     env-default:"10485760"`
	PageSize          int           `yaml:"page_size"          env:"CMS_PAGE_SIZE"          env-default:"50"`
	ImportConcurrency int           `yaml:"import_concurrency" env:"CMS_IMPORT_CONCURRENCY" env-default:"4"`
	// ImportRateLimit caps import requests per editor per minute; 0 disables it.
	ImportRateLimit int `yaml:"import_rate_limit" env:"CMS_IMPORT_RATE_LIMIT" env-default:"6"`
}

// Enabled reports whether a CMS base URL is configured.
func (c CMSConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// DictionaryConfig holds dictionary service settings.
type DictionaryConfig struct {
	DefaultPageSize  int `yaml:"default_page_size"   env:"DICT_DEFAULT_PAGE_SIZE"  env-default:"50"`
	MaxPageSize      int `yaml:"max_page_size"       env:"DICT_MAX_PAGE_SIZE"      env-default:"200"`
	MaxValuesPerKind int `yaml:"max_values_per_kind" env:"DICT_MAX_VALUES_PER_KIND" env-default:"100"`
	MaxValueLength   int `yaml:"max_value_length"    env:"DICT_MAX_VALUE_LENGTH"   env-default:"2000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
