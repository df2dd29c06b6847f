package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AMQP      AMQPConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Delivery  DeliveryConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig describes the MySQL connection. An empty Host selects
// the in-memory repositories, which is the development default.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN builds a go-sql-driver/mysql connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// AMQPConfig describes the notification broker. An empty URL disables
// event publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// RedisConfig selects the shared rate-limit store. An empty Addr keeps
// the single-process in-memory store.
type RedisConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret string // HMAC secret for admin bearer tokens
}

// PolicyConfig is one endpoint's rate-limit tuning.
type PolicyConfig struct {
	Limit         int
	WindowSeconds int
}

// RateLimitConfig carries the per-endpoint policies. Each call site is
// tuned independently.
type RateLimitConfig struct {
	Notify        PolicyConfig
	Contact       PolicyConfig
	Tracking      PolicyConfig
	SweepInterval int // seconds between expired-record sweeps
}

// DeliveryConfig tunes the ETA estimator and proximity notifications.
type DeliveryConfig struct {
	RoadFactor         float64
	NearbyThresholdKm  float64
	ArrivedThresholdKm float64
	MinNotifyInterval  int // seconds between proximity notifications per order
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "3306"),
			Name:     getEnv("DB_NAME", "zarinagems"),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("ORDER_EXCHANGE", "orders_exchange"),
			Queue:    getEnv("ORDER_QUEUE", "order_notifications"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		},
		RateLimit: RateLimitConfig{
			Notify:        PolicyConfig{Limit: getEnvAsInt("NOTIFY_RATE_LIMIT", 10), WindowSeconds: getEnvAsInt("NOTIFY_RATE_WINDOW", 60)},
			Contact:       PolicyConfig{Limit: getEnvAsInt("CONTACT_RATE_LIMIT", 3), WindowSeconds: getEnvAsInt("CONTACT_RATE_WINDOW", 300)},
			Tracking:      PolicyConfig{Limit: getEnvAsInt("TRACKING_RATE_LIMIT", 5), WindowSeconds: getEnvAsInt("TRACKING_RATE_WINDOW", 300)},
			SweepInterval: getEnvAsInt("RATE_SWEEP_INTERVAL", 60),
		},
		Delivery: DeliveryConfig{
			RoadFactor:         getEnvAsFloat("DELIVERY_ROAD_FACTOR", 1.4),
			NearbyThresholdKm:  getEnvAsFloat("DELIVERY_NEARBY_KM", 0.5),
			ArrivedThresholdKm: getEnvAsFloat("DELIVERY_ARRIVED_KM", 0.05),
			MinNotifyInterval:  getEnvAsInt("DELIVERY_NOTIFY_INTERVAL", 300),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	for name, p := range map[string]PolicyConfig{
		"notify":   c.RateLimit.Notify,
		"contact":  c.RateLimit.Contact,
		"tracking": c.RateLimit.Tracking,
	} {
		if p.Limit <= 0 || p.WindowSeconds <= 0 {
			return fmt.Errorf("rate limit policy %q must have a positive limit and window", name)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
