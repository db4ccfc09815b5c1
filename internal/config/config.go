package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	FaceMatch FaceMatchConfig
	Storage   StorageConfig
}

type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// FaceMatchConfig points at the external face-recognition service.
type FaceMatchConfig struct {
	BaseURL             string
	APIKey              string
	SimilarityThreshold float64
	Timeout             time.Duration
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "presenza"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	similarity, err := strconv.ParseFloat(getEnv("FACE_MATCH_SIMILARITY_THRESHOLD", "0.80"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_MATCH_SIMILARITY_THRESHOLD: %w", err)
	}

	faceTimeout, err := time.ParseDuration(getEnv("FACE_MATCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid FACE_MATCH_TIMEOUT: %w", err)
	}

	config.FaceMatch = FaceMatchConfig{
		BaseURL:             getEnv("FACE_MATCH_BASE_URL", "http://localhost:9000"),
		APIKey:              getEnv("FACE_MATCH_API_KEY", ""),
		SimilarityThreshold: similarity,
		Timeout:             faceTimeout,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.FaceMatch.BaseURL == "" {
		return fmt.Errorf("FACE_MATCH_BASE_URL is required")
	}
	if c.FaceMatch.SimilarityThreshold <= 0 || c.FaceMatch.SimilarityThreshold > 1 {
		return fmt.Errorf("FACE_MATCH_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
