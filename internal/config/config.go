package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Startup dataset: local path and optional remote URL. When both
	// are set the URL wins.
	DatasetPath string
	DatasetURL  string

	// Optional YAML column schema override
	SchemaPath string

	// Upload limits
	MaxUploadBytes int64

	// Search result cache
	CacheSize int
	CacheTTL  time.Duration

	// Remote dataset fetch
	FetchTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		DatasetPath:    getEnv("DATASET_PATH", "./data/receipts.csv"),
		DatasetURL:     getEnv("DATASET_URL", ""),
		SchemaPath:     getEnv("SCHEMA_PATH", ""),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 8<<20),
		CacheSize:      getEnvInt("CACHE_SIZE", 200),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatasetURL != "" {
		if parsed, err := url.Parse(c.DatasetURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid dataset URL '%s': %v", c.DatasetURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid dataset URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.SchemaPath != "" {
		if _, err := os.Stat(c.SchemaPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("schema file does not exist: %s", c.SchemaPath))
		}
	}

	if c.MaxUploadBytes < 1<<10 {
		errors = append(errors, fmt.Sprintf("invalid max upload bytes %d: must be at least 1KB", c.MaxUploadBytes))
	} else if c.MaxUploadBytes > 64<<20 {
		errors = append(errors, fmt.Sprintf("invalid max upload bytes %d: must be at most 64MB", c.MaxUploadBytes))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 10000", c.CacheSize))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	} else if c.FetchTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at most 5 minutes", c.FetchTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// DatasetSource returns the startup dataset source, preferring the
// remote URL when configured.
func (c *Config) DatasetSource() string {
	if c.DatasetURL != "" {
		return c.DatasetURL
	}
	return c.DatasetPath
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
