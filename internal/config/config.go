package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Sync      SyncConfig
	Messaging MessagingConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string
}

type DatabaseConfig struct {
	DSN              string
	PingTimeout      time.Duration
	OperationTimeout time.Duration
}

type CacheConfig struct {
	Addr        string
	User        string
	Password    string
	PingTimeout time.Duration
	TTL         time.Duration
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

type SyncConfig struct {
	// TimeZone is the single zone all persisted and returned timestamps
	// are localized to.
	TimeZone string
}

type MessagingConfig struct {
	// TopicURL is the SQS queue URL sync events are published to; empty
	// disables publishing.
	TopicURL        string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

func Load() (*Config, error) {
	godotenv.Load()

	jwtExp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}

	refreshExp, err := time.ParseDuration(getEnv("REFRESH_TOKEN_EXPIRATION", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRATION: %w", err)
	}

	port := getEnv("PORT", "8080")

	return &Config{
		Server: ServerConfig{
			Port:    port,
			Host:    getEnv("HOST", "0.0.0.0"),
			Env:     getEnv("ENV", "development"),
			BaseURL: getEnv("BASE_URL", "http://localhost:"+port),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DATABASE_DSN", "root:admin@tcp(localhost:3306)/notesync?parseTime=true"),
			PingTimeout:      getEnvAsDuration("DATABASE_PING_TIMEOUT", 2*time.Second),
			OperationTimeout: getEnvAsDuration("DATABASE_OPERATION_TIMEOUT", 5*time.Second),
		},
		Cache: CacheConfig{
			Addr:        getEnv("CACHE_ADDR", ""),
			User:        getEnv("CACHE_USER", ""),
			Password:    getEnv("CACHE_PASSWORD", ""),
			PingTimeout: getEnvAsDuration("CACHE_PING_TIMEOUT", 2*time.Second),
			TTL:         getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			Expiration:             jwtExp,
			RefreshTokenExpiration: refreshExp,
		},
		Sync: SyncConfig{
			TimeZone: getEnv("TIME_ZONE", "UTC"),
		},
		Messaging: MessagingConfig{
			TopicURL:        getEnv("MESSAGING_TOPIC_URL", ""),
			ShutdownTimeout: getEnvAsDuration("MESSAGING_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
