// Package config loads server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Backup  BackupConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	DBPath string
}

// BackupConfig holds options for the automatic snapshot scheduler.
type BackupConfig struct {
	Dir string
	// CronOverride, when set, replaces the frequency-derived schedule.
	CronOverride string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			DBPath: getenvWithDefault("DB_PATH", "./data/udangku.db"),
		},
		Backup: BackupConfig{
			Dir:          getenvWithDefault("BACKUP_DIR", "./backups"),
			CronOverride: os.Getenv("BACKUP_CRON_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Storage.DBPath == "" {
		return errors.New("DB_PATH must be provided")
	}
	if c.Backup.Dir == "" {
		return errors.New("BACKUP_DIR must be provided")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
