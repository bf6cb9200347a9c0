package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps every recognised environment variable to its config key.
// The monitor runs as a scheduled job whose environment is set by the CI
// runner, so variable names carry no prefix.
var envBindings = map[string]string{
	"github.owner":            "GITHUB_OWNER",
	"github.repo":             "GITHUB_REPO",
	"github.token":            "GITHUB_TOKEN",
	"github.api_base_url":     "GITHUB_API_URL",
	"github.issue_title_base": "ISSUE_TITLE_BASE",
	"github.issue_label":      "ISSUE_LABEL",

	"courtlistener.token":    "COURTLISTENER_TOKEN",
	"courtlistener.base_url": "COURTLISTENER_BASE_URL",
	"courtlistener.queries":  "COURTLISTENER_QUERIES",

	"slack.webhook_url": "SLACK_WEBHOOK_URL",

	"news.feeds":            "NEWS_FEEDS",
	"news.known_cases_file": "KNOWN_CASES_FILE",

	"report.lookback_days": "LOOKBACK_DAYS",
	"report.timezone":      "REPORT_TIMEZONE",

	"redis.addr":     "REDIS_ADDR",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"kafka.brokers": "KAFKA_BROKERS",
	"kafka.topic":   "KAFKA_TOPIC",

	"minio.endpoint":   "MINIO_ENDPOINT",
	"minio.access_key": "MINIO_ACCESS_KEY",
	"minio.secret_key": "MINIO_SECRET_KEY",
	"minio.bucket":     "MINIO_BUCKET",
	"minio.use_ssl":    "MINIO_USE_SSL",

	"metrics.pushgateway_url": "PUSHGATEWAY_URL",

	"log.level":  "LOG_LEVEL",
	"log.format": "LOG_FORMAT",
	"log.debug":  "DEBUG",
}

// LoadOptions selects the optional inputs layered under the environment.
type LoadOptions struct {
	// ConfigFile is an optional YAML file.  Environment variables override it.
	ConfigFile string

	// EnvFile is a dotenv file loaded into the process environment before
	// binding.  A missing file is not an error.  Empty means ".env".
	EnvFile string
}

// newViper builds a Viper instance with YAML file type and every entry of
// envBindings bound explicitly.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}
	return v, nil
}

// Load layers defaults, the optional YAML file, the dotenv file and the
// process environment (highest precedence) into a validated Config.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", opts.ConfigFile, err)
		}
	}
	return unmarshalAndFinalize(v)
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load env file %q: %w", path, err)
	}
	return nil
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

//Personal.AI order the ending
