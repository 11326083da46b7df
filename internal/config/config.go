package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "go-cfimages/internal/errors"
)

const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

const credentialsHelp = `Set the following environment variables:
  CLOUDFLARE_ACCOUNT_ID   your Cloudflare account identifier
  CLOUDFLARE_API_TOKEN    an API token with Images read/write permission`

type Config struct {
	AccountID string
	APIToken  string
	BaseURL   string

	RequestTimeout time.Duration

	// serve mode
	Host               string
	Port               string
	MaxRequestBodySize int64

	// export mode, validated only when export runs
	AzureAccount   string
	AzureKey       string
	AzureContainer string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// ValidateAzure checks the export credentials, which are optional for
// every other command.
func (c *Config) ValidateAzure() error {
	if c.AzureAccount == "" || c.AzureKey == "" {
		return apperrors.NewConfigurationError(
			"missing Azure storage credentials",
			"Set AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY to enable export",
		)
	}
	return nil
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		AccountID:          strings.TrimSpace(os.Getenv("CLOUDFLARE_ACCOUNT_ID")),
		APIToken:           strings.TrimSpace(os.Getenv("CLOUDFLARE_API_TOKEN")),
		BaseURL:            getEnvOrDefault("CF_IMAGES_BASE_URL", DefaultBaseURL),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		Host:               getEnvOrDefault("HOST", "127.0.0.1"),
		Port:               getEnvOrDefault("PORT", "8080"),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 11*1024*1024),
		AzureAccount:       os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:           os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:     getEnvOrDefault("AZURE_BACKUP_CONTAINER", "cfimages-backup"),
	}

	if cfg.AccountID == "" || cfg.APIToken == "" {
		return nil, apperrors.NewConfigurationError("missing Cloudflare credentials", credentialsHelp)
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("invalid PORT: %q", cfg.Port), "")
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize), "")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
