// Package config defines the configuration structures for the lawsuit
// monitor.  No I/O or parsing logic lives here, only plain data types and
// validation.  One Config is built at process start and passed down; no other
// package reads the process environment.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// GitHubConfig holds the issue-tracker target and credentials.
type GitHubConfig struct {
	Owner          string        `mapstructure:"owner"`
	Repo           string        `mapstructure:"repo"`
	Token          string        `mapstructure:"token"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	WebBaseURL     string        `mapstructure:"web_base_url"`
	IssueTitleBase string        `mapstructure:"issue_title_base"`
	IssueLabel     string        `mapstructure:"issue_label"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// CourtListenerConfig holds the litigation-records API parameters.
type CourtListenerConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Token           string        `mapstructure:"token"`
	UserAgent       string        `mapstructure:"user_agent"`
	Queries         []string      `mapstructure:"queries"`
	MaxSearchHits   int           `mapstructure:"max_search_hits"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ExtractMaxChars int           `mapstructure:"extract_max_chars"`
}

// SlackConfig holds the chat webhook target.
type SlackConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// NewsConfig holds the news fetcher inputs.
type NewsConfig struct {
	Feeds          []string      `mapstructure:"feeds"`
	KnownCasesFile string        `mapstructure:"known_cases_file"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ReportConfig holds report rendering and scheduling parameters.
type ReportConfig struct {
	LookbackDays int    `mapstructure:"lookback_days"`
	Timezone     string `mapstructure:"timezone"`
	MaxCases     int    `mapstructure:"max_cases"`
	MaxDocuments int    `mapstructure:"max_documents"`
}

// RedisConfig holds the optional run-lock connection parameters.
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

// KafkaConfig holds the optional report-event producer parameters.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MinIOConfig holds the optional report-archive parameters.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MetricsConfig holds the optional Prometheus pushgateway target.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Debug  bool   `mapstructure:"debug"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	GitHub        GitHubConfig        `mapstructure:"github"`
	CourtListener CourtListenerConfig `mapstructure:"courtlistener"`
	Slack         SlackConfig         `mapstructure:"slack"`
	News          NewsConfig          `mapstructure:"news"`
	Report        ReportConfig        `mapstructure:"report"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Log           LogConfig           `mapstructure:"log"`
}

// Location resolves Report.Timezone.  Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LockEnabled reports whether the Redis run lock is configured.
func (c *Config) LockEnabled() bool { return c.Redis.Addr != "" }

// EventsEnabled reports whether report events are sent to Kafka.
func (c *Config) EventsEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// ArchiveEnabled reports whether reports are archived to object storage.
func (c *Config) ArchiveEnabled() bool { return c.MinIO.Endpoint != "" }

// MetricsEnabled reports whether run metrics are pushed.
func (c *Config) MetricsEnabled() bool { return c.Metrics.PushgatewayURL != "" }

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.  It
// covers everything needed to build a report; publishing credentials are
// checked separately by ValidatePublish.
func (c *Config) Validate() error {
	if c.Report.LookbackDays < 1 {
		return fmt.Errorf("config: report.lookback_days must be ≥ 1, got %d", c.Report.LookbackDays)
	}
	if c.Report.MaxCases < 1 || c.Report.MaxDocuments < 1 {
		return fmt.Errorf("config: report row caps must be ≥ 1")
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("config: report.timezone %q: %w", c.Report.Timezone, err)
	}
	if !strings.HasPrefix(c.CourtListener.BaseURL, "http") {
		return fmt.Errorf("config: courtlistener.base_url %q is not an http(s) URL", c.CourtListener.BaseURL)
	}
	if c.CourtListener.ExtractMaxChars < 1 {
		return fmt.Errorf("config: courtlistener.extract_max_chars must be ≥ 1")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.ArchiveEnabled() && c.MinIO.Bucket == "" {
		return fmt.Errorf("config: minio.bucket is required when minio.endpoint is set")
	}
	if c.EventsEnabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka.topic is required when kafka.brokers is set")
	}
	return nil
}

// ValidatePublish checks the settings the publish stage cannot run without.
func (c *Config) ValidatePublish() error {
	var missing []string
	if c.GitHub.Owner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if c.GitHub.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.Slack.WebhookURL == "" {
		missing = append(missing, "SLACK_WEBHOOK_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

//Personal.AI order the ending
