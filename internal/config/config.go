package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store and storage drivers accepted in AppConfig.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	StorageLocal = "local"
	StorageMinIO = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, takes precedence over the individual components.
type DatabaseConfig struct {
	URL                string `env:"DATABASE_URL"`
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" env-default:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" env-default:"300"`
	AutoMigrate        bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" env-default:"subcity-documents"`
	UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; a .env file is honoured when
// the binary imports github.com/joho/godotenv/autoload.
type AppConfig struct {
	Port     string `env:"PORT" env-default:"8080"`
	Timezone string `env:"APP_TIMEZONE" env-default:"Africa/Addis_Ababa"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	StoreDriver   string `env:"STORE_DRIVER" env-default:"memory"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"local"`
	UploadDir     string `env:"UPLOAD_DIR" env-default:"uploads"`

	MaxUploadBytes int  `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`
	ActivityLimit  int  `env:"ACTIVITY_LIMIT" env-default:"100"`
	SeedDemoData   bool `env:"SEED_DEMO_DATA" env-default:"true"`

	Database DatabaseConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables and validates the driver choices.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.StorageDriver {
	case StorageLocal, StorageMinIO:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Usage lists every environment variable Load reads, with its default.
func Usage() string {
	var cfg AppConfig
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
