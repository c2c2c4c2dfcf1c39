package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the catalog service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Reconcile ReconcileConfig
}

type ServiceConfig struct {
	Name        string
	Environment string
	LogLevel    string
	HTTPPort    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// ReconcileConfig controls the counter drift reconciliation loop
type ReconcileConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("SERVICE_NAME", "catalog-service")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_PORT", "8081")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "catalogdb")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_GROUP_ID", "catalog-admin")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("RECONCILE_ENABLED", true)
	viper.SetDefault("RECONCILE_INTERVAL", "10m")

	// A missing .env file is fine, env vars still apply
	_ = viper.ReadInConfig()

	return &Config{
		Service: ServiceConfig{
			Name:        viper.GetString("SERVICE_NAME"),
			Environment: viper.GetString("ENVIRONMENT"),
			LogLevel:    viper.GetString("LOG_LEVEL"),
			HTTPPort:    viper.GetString("HTTP_PORT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Kafka: KafkaConfig{
			Enabled: viper.GetBool("KAFKA_ENABLED"),
			Brokers: strings.Split(viper.GetString("KAFKA_BROKERS"), ","),
			GroupID: viper.GetString("KAFKA_GROUP_ID"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Reconcile: ReconcileConfig{
			Enabled:  viper.GetBool("RECONCILE_ENABLED"),
			Interval: viper.GetDuration("RECONCILE_INTERVAL"),
		},
	}
}

// DSN builds the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
