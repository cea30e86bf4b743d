package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	OpenLibrary OpenLibraryConfig `yaml:"openlibrary"`
	Locking     LockingConfig     `yaml:"locking"`
	Log         LogConfig         `yaml:"log"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// RedisConfig contains the catalog cache settings. Redis is optional; the
// service degrades to uncached remote lookups without it.
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CatalogTTLHours int    `yaml:"catalog_ttl_hours"`
}

// OpenLibraryConfig contains settings for the remote book database.
type OpenLibraryConfig struct {
	BaseURL        string  `yaml:"base_url"`
	CoversURL      string  `yaml:"covers_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRPS         float64 `yaml:"max_rps"`
}

// LockingConfig bounds how long a mutation waits for a rental's lock.
type LockingConfig struct {
	AcquireTimeoutMillis int `yaml:"acquire_timeout_millis"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig contains cron expressions (with seconds) for scheduled jobs.
type SchedulerConfig struct {
	RefreshOpenRentals string `yaml:"refresh_open_rentals"`
}

// Load reads configuration from a YAML file and applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables.
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// OpenLibrary
	if val := os.Getenv("OPENLIBRARY_BASE_URL"); val != "" {
		c.OpenLibrary.BaseURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.OpenLibrary.BaseURL == "" {
		c.OpenLibrary.BaseURL = "https://openlibrary.org"
	}
	if c.OpenLibrary.CoversURL == "" {
		c.OpenLibrary.CoversURL = "https://covers.openlibrary.org"
	}
	if c.OpenLibrary.TimeoutSeconds <= 0 {
		c.OpenLibrary.TimeoutSeconds = 10
	}
	if c.OpenLibrary.MaxRPS <= 0 {
		c.OpenLibrary.MaxRPS = 2
	}
	if c.Locking.AcquireTimeoutMillis <= 0 {
		c.Locking.AcquireTimeoutMillis = 5000
	}
	if c.Redis.CatalogTTLHours <= 0 {
		c.Redis.CatalogTTLHours = 24
	}
	if c.Scheduler.RefreshOpenRentals == "" {
		// Nightly at 02:00 UTC.
		c.Scheduler.RefreshOpenRentals = "0 0 2 * * *"
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	return nil
}

// GetServerAddress returns the host:port the HTTP server listens on.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string.
func (c *Config) GetDatabaseConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Database, sslMode)
}

// GetDatabaseURL returns the URL form of the connection, used by the migrator.
func (c *Config) GetDatabaseURL() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database, sslMode)
}

// OpenLibraryTimeout returns the remote catalog request timeout.
func (c *Config) OpenLibraryTimeout() time.Duration {
	return time.Duration(c.OpenLibrary.TimeoutSeconds) * time.Second
}

// LockAcquireTimeout returns how long a mutation waits for a rental's lock.
func (c *Config) LockAcquireTimeout() time.Duration {
	return time.Duration(c.Locking.AcquireTimeoutMillis) * time.Millisecond
}

// CatalogCacheTTL returns how long remote catalog entries stay cached.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.Redis.CatalogTTLHours) * time.Hour
}
