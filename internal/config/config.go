package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration of the Present command line client.
type Config struct {
	API         APIConfig
	LogLevel    string
	Profile     string
	DatabaseURL string
	// SessionFile is used to keep logins when DatabaseURL is empty.
	SessionFile  string
	MigrationDir string
	ObjectStore  ObjectStoreConfig
	UploadQueue  int
}

// APIConfig controls how the transport bridge reaches the Present API.
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
}

// ObjectStoreConfig points at the S3-compatible bucket holding media segments.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	ArchivePrefix string
}

// Enabled reports whether a bucket has been configured.
func (c ObjectStoreConfig) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Load reads configuration from environment variables, applying defaults
// that talk to the public API and keep sessions in the user config directory.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:        getString("PRESENT_API_BASE_URL", "https://api.present.tv/v1/"),
			Timeout:        getDuration("PRESENT_HTTP_TIMEOUT", 30*time.Second),
			UserAgent:      getString("PRESENT_USER_AGENT", "Present API Client v1.1"),
			AcceptLanguage: getString("PRESENT_ACCEPT_LANGUAGE", "en-US,en;q=0.5"),
		},
		LogLevel:     getString("PRESENT_LOG_LEVEL", "info"),
		Profile:      getString("PRESENT_PROFILE", "default"),
		DatabaseURL:  getString("PRESENT_DATABASE_URL", ""),
		SessionFile:  getString("PRESENT_SESSION_FILE", defaultSessionFile()),
		MigrationDir: getString("PRESENT_MIGRATIONS", "migrations"),
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("PRESENT_SEGMENT_BUCKET", ""),
			Region:        getString("PRESENT_SEGMENT_REGION", "us-east-1"),
			Endpoint:      getString("PRESENT_SEGMENT_ENDPOINT", ""),
			PublicBaseURL: getString("PRESENT_SEGMENT_PUBLIC_URL", ""),
			ArchivePrefix: getString("PRESENT_ARCHIVE_PREFIX", "recordings"),
		},
		UploadQueue: getInt("PRESENT_UPLOAD_QUEUE", 16),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("PRESENT_API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("PRESENT_API_BASE_URL: %q is not an absolute http(s) url", c.API.BaseURL)
	}
	if !strings.HasSuffix(c.API.BaseURL, "/") {
		return fmt.Errorf("PRESENT_API_BASE_URL: %q must end with /", c.API.BaseURL)
	}
	if strings.TrimSpace(c.Profile) == "" {
		return fmt.Errorf("PRESENT_PROFILE must not be empty")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".present-sessions.json"
	}
	return filepath.Join(dir, "present", "sessions.json")
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
