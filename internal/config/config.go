package config

import "time"

// Store backends.
const (
	BackendSanity   = "sanity"
	BackendPostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Sanity   SanityConfig   `yaml:"sanity"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the document store implementation.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"sanity"`
}

// SanityConfig holds Sanity HTTP API settings.
type SanityConfig struct {
	ProjectID       string        `yaml:"project_id"       env:"SANITY_PROJECT_ID"`
	Dataset         string        `yaml:"dataset"          env:"SANITY_DATASET"          env-default:"production"`
	APIVersion      string        `yaml:"api_version"      env:"SANITY_API_VERSION"      env-default:"2024-01-01"`
	WriteToken      string        `yaml:"write_token"      env:"SANITY_WRITE_TOKEN"`
	BaseURL         string        `yaml:"base_url"         env:"SANITY_BASE_URL"`
	Timeout         time.Duration `yaml:"timeout"          env:"SANITY_TIMEOUT"          env-default:"30s"`
	RequestInterval time.Duration `yaml:"request_interval" env:"SANITY_REQUEST_INTERVAL" env-default:"100ms"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// ImportConfig holds settings shared by the import jobs.
type ImportConfig struct {
	XMLPath          string        `yaml:"xml_path"          env:"IMPORT_XML_PATH"          env-default:"bihaanbhojpuri.WordPress.xml"`
	PlaceholderAsset string        `yaml:"placeholder_asset" env:"IMPORT_PLACEHOLDER_ASSET" env-default:"image-2701a2499bfbdb51822ed69b6e9753939c30b745-800x400-svg"`
	ExcludedTitles   []string      `yaml:"excluded_titles"   env:"IMPORT_EXCLUDED_TITLES"   env-separator:"," env-default:"Untitled,Beyond the Obstacle,The Art of Connection,he rt of onnection"`
	DryRun           bool          `yaml:"dry_run"           env:"IMPORT_DRY_RUN"           env-default:"false"`
	PreviewCount     int           `yaml:"preview_count"     env:"IMPORT_PREVIEW_COUNT"     env-default:"3"`
	Timeout          time.Duration `yaml:"timeout"           env:"IMPORT_TIMEOUT"           env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
