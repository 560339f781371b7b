package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Matching  MatchingConfig
	Proximity ProximityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// MatchingConfig holds taxi search thresholds.
type MatchingConfig struct {
	MaxOriginDistanceKm      float64
	MaxDestinationDistanceKm float64
	MaxTaxiDistanceKm        float64
	MaxResults               int
}

// ProximityConfig holds driver-proximity monitoring settings.
type ProximityConfig struct {
	CheckInterval   time.Duration
	AverageSpeedKmh float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "taxilink"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "taxilink-service"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Matching: MatchingConfig{
			MaxOriginDistanceKm:      getFloatEnv("MATCH_MAX_ORIGIN_KM", 1.0),
			MaxDestinationDistanceKm: getFloatEnv("MATCH_MAX_DESTINATION_KM", 1.0),
			MaxTaxiDistanceKm:        getFloatEnv("MATCH_MAX_TAXI_KM", 2.0),
			MaxResults:               getIntEnv("MATCH_MAX_RESULTS", 10),
		},
		Proximity: ProximityConfig{
			CheckInterval:   getDurationEnv("PROXIMITY_CHECK_INTERVAL", 30*time.Second),
			AverageSpeedKmh: getFloatEnv("PROXIMITY_AVG_SPEED_KMH", 30),
		},
	}
}

// Validate rejects configurations that would make matching or
// monitoring misbehave silently.
func (c *Config) Validate() error {
	if c.Matching.MaxOriginDistanceKm < 0 || c.Matching.MaxDestinationDistanceKm < 0 || c.Matching.MaxTaxiDistanceKm < 0 {
		return fmt.Errorf("matching distance thresholds must be non-negative")
	}
	if c.Matching.MaxResults < 0 {
		return fmt.Errorf("MATCH_MAX_RESULTS must be non-negative, got %d", c.Matching.MaxResults)
	}
	if c.Proximity.CheckInterval <= 0 {
		return fmt.Errorf("PROXIMITY_CHECK_INTERVAL must be positive, got %s", c.Proximity.CheckInterval)
	}
	if c.Proximity.AverageSpeedKmh <= 0 {
		return fmt.Errorf("PROXIMITY_AVG_SPEED_KMH must be positive, got %g", c.Proximity.AverageSpeedKmh)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
