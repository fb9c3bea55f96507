package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/menusync/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port              string
	StoreType         string
	DataDir           string
	DBPath            string
	ImagesDir         string
	ImagesURLPrefix   string
	ImageNameTemplate string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKey       string
	S3SecretKey       string
	S3Prefix          string
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string
	ImageProviderURL  string
	MenuConfigFile    string
	DefaultLocation   string
	StaleTimeout      time.Duration
	CacheTTL          time.Duration
	WarmupOnStart     bool
	LogLevel          string
	LogFormat         string
	LogFile           string

	Locations    []Location
	ImageCatalog map[string]string

	parseErrors []string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	c := &Config{
		Port:              getEnv("PORT", constants.DefaultPort),
		StoreType:         getEnv("STORE_TYPE", constants.DefaultStoreType),
		DataDir:           getEnv("DATA_DIR", constants.DefaultDataDir),
		ImagesDir:         getEnv("IMAGES_DIR", constants.DefaultImagesDir),
		ImagesURLPrefix:   getEnv("IMAGES_URL_PREFIX", constants.DefaultImagesURLPrefix),
		ImageNameTemplate: getEnv("IMAGE_NAME_TEMPLATE", constants.DefaultImageNameTmpl),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", constants.DefaultS3Region),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Prefix:          getEnv("S3_PREFIX", "menusync/"),
		OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", constants.DefaultOpenAIBaseURL),
		OpenAIModel:       getEnv("OPENAI_MODEL", constants.DefaultOpenAIModel),
		ImageProviderURL:  getEnv("IMAGE_PROVIDER_URL", constants.DefaultImageProviderURL),
		MenuConfigFile:    getEnv("MENU_CONFIG_FILE", ""),
		DefaultLocation:   getEnv("DEFAULT_LOCATION", constants.DefaultLocation),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		LogFile:           getEnv("LOG_FILE", ""),
		Locations:         DefaultLocations(),
	}
	c.DBPath = getEnv("DB_PATH", filepath.Join(c.DataDir, constants.DefaultDBPath))
	c.RedisDB = c.getEnvInt("REDIS_DB", 0)
	c.StaleTimeout = c.getEnvDuration("STALE_TIMEOUT", constants.DefaultStaleTimeout)
	c.CacheTTL = c.getEnvDuration("CACHE_TTL", constants.DefaultCacheTTL)
	c.WarmupOnStart = c.getEnvBool("WARMUP_ON_START", true)
	return c
}

// LLMEnabled reports whether the LLM structuring collaborator is configured.
func (c *Config) LLMEnabled() bool {
	return c.OpenAIKey != ""
}

// Location returns the configured location with the given name.
func (c *Config) Location(name string) (Location, bool) {
	for _, l := range c.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	switch c.StoreType {
	case constants.StoreTypeMemory:
	case constants.StoreTypeFile:
		if c.DataDir == "" {
			errors = append(errors, "DATA_DIR cannot be empty for the file store")
		}
	case constants.StoreTypeSQLite:
		if c.DBPath == "" {
			errors = append(errors, "DB_PATH cannot be empty for the sqlite store")
		}
	case constants.StoreTypeRedis:
		if c.RedisAddr == "" {
			errors = append(errors, "REDIS_ADDR cannot be empty for the redis store")
		}
	case constants.StoreTypeS3:
		if c.S3Bucket == "" {
			errors = append(errors, "S3_BUCKET cannot be empty for the s3 store")
		}
	default:
		errors = append(errors, fmt.Sprintf("STORE_TYPE must be one of: memory, file, sqlite, redis, s3, got: %s", c.StoreType))
	}

	if c.ImagesDir == "" {
		errors = append(errors, "IMAGES_DIR cannot be empty")
	}
	if !strings.HasPrefix(c.ImagesURLPrefix, "/") || !strings.HasSuffix(c.ImagesURLPrefix, "/") {
		errors = append(errors, fmt.Sprintf("IMAGES_URL_PREFIX must start and end with '/', got: %s", c.ImagesURLPrefix))
	}

	for key, raw := range map[string]string{
		"IMAGE_PROVIDER_URL": c.ImageProviderURL,
		"OPENAI_BASE_URL":    c.OpenAIBaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("%s is not a valid URL: %s", key, raw))
		}
	}

	if c.StaleTimeout <= 0 {
		errors = append(errors, "STALE_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		errors = append(errors, "CACHE_TTL must be positive")
	}

	if len(c.Locations) == 0 {
		errors = append(errors, "at least one location must be configured")
	}
	seen := make(map[string]bool)
	for _, l := range c.Locations {
		if l.Name == "" {
			errors = append(errors, "location name cannot be empty")
			continue
		}
		if seen[l.Name] {
			errors = append(errors, fmt.Sprintf("duplicate location: %s", l.Name))
		}
		seen[l.Name] = true
		if u, err := url.Parse(l.SourceURL); err != nil || u.Scheme == "" {
			errors = append(errors, fmt.Sprintf("location %s has an invalid source_url: %s", l.Name, l.SourceURL))
		}
	}
	if c.DefaultLocation != "" && !seen[c.DefaultLocation] && len(c.Locations) > 0 {
		errors = append(errors, fmt.Sprintf("DEFAULT_LOCATION %s is not a configured location", c.DefaultLocation))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a valid number, got: %s", key, raw))
		return fallback
	}
	return n
}

func (c *Config) getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a valid duration, got: %s", key, raw))
		return fallback
	}
	return d
}

func (c *Config) getEnvBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a boolean, got: %s", key, raw))
		return fallback
	}
	return b
}
