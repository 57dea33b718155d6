package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nsquery/internal/errors"
)

const (
	// DefaultTimeout bounds a single SuiteQL request.
	DefaultTimeout = 30 * time.Second

	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"
)

// LoadEnvFile loads variables from the given .env files into the process
// environment. Variables that are already set are left untouched and
// missing files are skipped.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrap(err, errors.ErrorTypeConfiguration,
				fmt.Sprintf("error loading env file %s", path))
		}
	}
	return nil
}

// Get retrieves an environment variable with a default value
func Get(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBool retrieves an environment variable as a boolean
func GetBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDuration retrieves an environment variable as a time.Duration.
// Unlike the other getters a malformed value is reported, since a silently
// ignored timeout is hard to notice.
func GetDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeConfiguration,
			fmt.Sprintf("%s must be a duration such as 30s", key))
	}
	if parsed <= 0 {
		return 0, errors.Configuration(fmt.Sprintf("%s must be positive", key))
	}
	return parsed, nil
}

// Settings holds the non-credential knobs of a run.
type Settings struct {
	Timeout       time.Duration
	LogLevel      string
	DatadogAPIKey string
	DatadogURL    string
	ReportRuns    bool
}

// LoadSettings reads run settings from the environment.
func LoadSettings() (Settings, error) {
	timeout, err := GetDuration("NS_HTTP_TIMEOUT", DefaultTimeout)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Timeout:       timeout,
		LogLevel:      Get("NSQUERY_LOG_LEVEL", "info"),
		DatadogAPIKey: Get("DD_API_KEY", ""),
		DatadogURL:    Get("DD_SITE_URL", "https://http-intake.logs.datadoghq.com"),
		ReportRuns:    GetBool("NSQUERY_DATADOG", false),
	}, nil
}
