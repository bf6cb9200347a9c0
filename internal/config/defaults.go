package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultIssueTitleBase = "AI 불법/무단 학습데이터 소송 모니터링"
	DefaultIssueLabel     = "ai-lawsuit-monitor"
	DefaultGitHubAPIURL   = "https://api.github.com"
	DefaultGitHubWebURL   = "https://github.com"

	DefaultCourtListenerURL = "https://www.courtlistener.com"
	DefaultUserAgent        = "ai-lawsuit-monitor/1.2"
	DefaultMaxSearchHits    = 20
	DefaultExtractMaxChars  = 4000

	DefaultLookbackDays = 3
	DefaultTimezone     = "Asia/Seoul"
	DefaultMaxCases     = 25
	DefaultMaxDocuments = 20

	DefaultHTTPTimeout      = 25 * time.Second
	DefaultPublishTimeout   = 20 * time.Second
	DefaultRedisKeyPrefix   = "lawsuit-monitor:"
	DefaultLockTTL          = 10 * time.Minute
	DefaultKafkaTopic       = "lawsuit-monitor.reports"
	DefaultMinIOBucket      = "lawsuit-reports"
	DefaultMetricsJob       = "lawsuit_monitor"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultDebugLogFormat   = "console"
)

// DefaultQueries are the full-text searches run against the RECAP archive
// when no query list is configured.
var DefaultQueries = []string{
	`"artificial intelligence" AND copyright`,
	`"training data" AND (copyright OR infringement)`,
	`"large language model" OR LLM`,
	`"generative AI" AND (scraping OR "web crawl")`,
	`"machine learning" AND "without permission"`,
}

// DefaultFeeds are the news feeds polled when none are configured.
var DefaultFeeds = []string{
	"https://news.google.com/rss/search?q=AI+copyright+lawsuit+training+data&hl=en-US&gl=US&ceid=US:en",
	"https://news.google.com/rss/search?q=AI+%EC%86%8C%EC%86%A1+%ED%95%99%EC%8A%B5%EB%8D%B0%EC%9D%B4%ED%84%B0&hl=ko&gl=KR&ceid=KR:ko",
}

// ApplyDefaults fills every zero-value field in cfg with its default.  Values
// already set are left unchanged so explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── GitHub ────────────────────────────────────────────────────────────────
	if cfg.GitHub.APIBaseURL == "" {
		cfg.GitHub.APIBaseURL = DefaultGitHubAPIURL
	}
	if cfg.GitHub.WebBaseURL == "" {
		cfg.GitHub.WebBaseURL = DefaultGitHubWebURL
	}
	if cfg.GitHub.IssueTitleBase == "" {
		cfg.GitHub.IssueTitleBase = DefaultIssueTitleBase
	}
	if cfg.GitHub.IssueLabel == "" {
		cfg.GitHub.IssueLabel = DefaultIssueLabel
	}
	if cfg.GitHub.Timeout == 0 {
		cfg.GitHub.Timeout = DefaultPublishTimeout
	}

	// ── CourtListener ─────────────────────────────────────────────────────────
	if cfg.CourtListener.BaseURL == "" {
		cfg.CourtListener.BaseURL = DefaultCourtListenerURL
	}
	if cfg.CourtListener.UserAgent == "" {
		cfg.CourtListener.UserAgent = DefaultUserAgent
	}
	if len(cfg.CourtListener.Queries) == 0 {
		cfg.CourtListener.Queries = append([]string(nil), DefaultQueries...)
	}
	if cfg.CourtListener.MaxSearchHits == 0 {
		cfg.CourtListener.MaxSearchHits = DefaultMaxSearchHits
	}
	if cfg.CourtListener.Timeout == 0 {
		cfg.CourtListener.Timeout = DefaultHTTPTimeout
	}
	if cfg.CourtListener.ExtractMaxChars == 0 {
		cfg.CourtListener.ExtractMaxChars = DefaultExtractMaxChars
	}

	// ── Slack / News ──────────────────────────────────────────────────────────
	if cfg.Slack.Timeout == 0 {
		cfg.Slack.Timeout = DefaultPublishTimeout
	}
	if len(cfg.News.Feeds) == 0 {
		cfg.News.Feeds = append([]string(nil), DefaultFeeds...)
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = DefaultHTTPTimeout
	}

	// ── Report ────────────────────────────────────────────────────────────────
	if cfg.Report.LookbackDays == 0 {
		cfg.Report.LookbackDays = DefaultLookbackDays
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = DefaultTimezone
	}
	if cfg.Report.MaxCases == 0 {
		cfg.Report.MaxCases = DefaultMaxCases
	}
	if cfg.Report.MaxDocuments == 0 {
		cfg.Report.MaxDocuments = DefaultMaxDocuments
	}

	// ── Optional sinks ────────────────────────────────────────────────────────
	// Addresses stay empty (component disabled); only tunables are defaulted.
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultLockTTL
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = DefaultMetricsJob
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Debug {
		cfg.Log.Level = "debug"
		if cfg.Log.Format == "" {
			cfg.Log.Format = DefaultDebugLogFormat
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
