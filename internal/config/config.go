package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Every service reads its settings from environment variables set on the
// pod; the defaults below match the docker-compose/LocalStack setup.

type Config struct {
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	StorageDriver     string `mapstructure:"STORAGE_DRIVER"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	SyncSQSQueueURL   string `mapstructure:"SYNC_SQS_QUEUE_URL"`
	EmailSQSQueueURL  string `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	PayrollAPIURL     string `mapstructure:"PAYROLL_API_URL"`
	EmailSender       string `mapstructure:"EMAIL_SENDER"`
	EmailDomain       string `mapstructure:"EMAIL_DOMAIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	EnforceSelfClock  bool   `mapstructure:"ENFORCE_SELF_CLOCK"`
	DisplayTimezone   string `mapstructure:"DISPLAY_TIMEZONE"`
	OTelEndpoint      string `mapstructure:"OTEL_EXPORTER_ENDPOINT"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	v := viper.New()
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "crewclock_db")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("SYNC_SQS_QUEUE_URL", "http://localstack:4566/000000000000/clock-sync-queue")
	v.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/email-queue")
	v.SetDefault("PAYROLL_API_URL", "http://localhost:8081/")
	v.SetDefault("EMAIL_SENDER", "timeclock@crewclock.local")
	v.SetDefault("EMAIL_DOMAIN", "crewclock.local")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ENFORCE_SELF_CLOCK", true)
	v.SetDefault("DISPLAY_TIMEZONE", "UTC")
	v.SetDefault("OTEL_EXPORTER_ENDPOINT", "jaeger:4317")
	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("WORKER_CONCURRENCY", 10)

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	if config.StorageDriver != StoragePostgres && config.StorageDriver != StorageMemory {
		return config, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.StorageDriver)
	}
	if _, err = config.Location(); err != nil {
		return config, err
	}
	return config, nil
}

// Location resolves DISPLAY_TIMEZONE, used for day boundaries and clock times.
func (c Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}
