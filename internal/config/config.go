package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL connection settings for the run history store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for run artifacts.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AzureOpenAIConfig holds the credentials and routing for one Azure OpenAI
// deployment (the Whisper transcription deployment or the chat-completion
// translator deployment).
type AzureOpenAIConfig struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Whisper    AzureOpenAIConfig
	Translator AzureOpenAIConfig
	Database   DatabaseConfig
	MinIO      MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Whisper: AzureOpenAIConfig{
			APIKey:     getEnv("AZURE_WHISPER_API_KEY", ""),
			Endpoint:   getEnv("AZURE_WHISPER_ENDPOINT", ""),
			Deployment: getEnv("AZURE_WHISPER_DEPLOYMENT_NAME", ""),
			APIVersion: getEnv("AZURE_WHISPER_API_VERSION", "2024-06-01"),
			TimeoutSec: getEnvInt("AZURE_WHISPER_TIMEOUT_SEC", 120),
		},
		Translator: AzureOpenAIConfig{
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", ""),
			TimeoutSec: getEnvInt("AZURE_OPENAI_TIMEOUT_SEC", 300),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// placeholderMarkers are substrings left behind by sample .env files. A value
// containing one of them is treated as absent.
var placeholderMarkers = []string{"your-azure", "your-actual", "changeme"}

// Validate enforces the fail-fast startup contract: both Azure OpenAI
// deployments must be fully configured with real (non-placeholder) values.
func (c *AppConfig) Validate() error {
	if err := c.Whisper.validate("whisper"); err != nil {
		return err
	}
	return c.Translator.validate("translator")
}

func (a AzureOpenAIConfig) validate(name string) error {
	fields := []struct {
		label string
		value string
	}{
		{"api key", a.APIKey},
		{"endpoint", a.Endpoint},
		{"deployment name", a.Deployment},
		{"api version", a.APIVersion},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%s %s is required", name, f.label)
		}
		for _, marker := range placeholderMarkers {
			if strings.Contains(strings.ToLower(f.value), marker) {
				return fmt.Errorf("%s %s still holds a placeholder value; set real Azure OpenAI credentials", name, f.label)
			}
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
