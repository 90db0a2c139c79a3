// Package config loads the feed refresher configuration from defaults and
// environment variables.
package config

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Redis      RedisConfig      `json:"redis"`
	Fetch      FetchConfig      `json:"fetch"`
	Blocklist  BlocklistConfig  `json:"blocklist"`
	RecentSave RecentSaveConfig `json:"recent_save"`
	Queue      QueueConfig      `json:"queue"`
	Discovery  DiscoveryConfig  `json:"discovery"`
	Downstream DownstreamConfig `json:"downstream"`
	Processing ProcessingConfig `json:"processing"`
	OTel       OTelConfig       `json:"otel"`
	LogLevel   string           `json:"log_level" env:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9600"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	// URL takes precedence over the individual connection fields.
	URL      string `json:"-" env:"DATABASE_URL"`
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     int    `json:"port" env:"DB_PORT" default:"5432"`
	User     string `json:"user" env:"DB_USER" default:"feed_refresher"`
	Password string `json:"-" env:"DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" default:"feeds"`
	SSLMode  string `json:"ssl_mode" env:"DB_SSL_MODE" default:"disable"`
	MaxConns int    `json:"max_conns" env:"DB_MAX_CONNS" default:"10"`
	MinConns int    `json:"min_conns" env:"DB_MIN_CONNS" default:"2"`
}

// DSN returns the pgx connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type RedisConfig struct {
	URL string `json:"-" env:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type FetchConfig struct {
	Timeout      time.Duration `json:"timeout" env:"FETCH_TIMEOUT" default:"60s"`
	MaxRedirects int           `json:"max_redirects" env:"FETCH_MAX_REDIRECTS" default:"10"`
	UserAgent    string        `json:"user_agent" env:"FETCH_USER_AGENT"`
	Accept       string        `json:"accept" env:"FETCH_ACCEPT"`
	MaxBodySize  int64         `json:"max_body_size" env:"FETCH_MAX_BODY_SIZE" default:"10485760"`
	// HostInterval is the minimum spacing between two fetches of one host.
	HostInterval time.Duration `json:"host_interval" env:"FETCH_HOST_INTERVAL" default:"1s"`
}

type BlocklistConfig struct {
	// Threshold is the failure count a feed must exceed to be blocked.
	Threshold int64         `json:"threshold" env:"MAX_FEED_FETCH_FAILURES" default:"10"`
	TTL       time.Duration `json:"ttl" env:"FEED_FAILURE_TTL" default:"24h"`
}

type RecentSaveConfig struct {
	TTL time.Duration `json:"ttl" env:"RECENTLY_SAVED_TTL" default:"1h"`
}

type QueueConfig struct {
	HighPriorityStream string        `json:"high_priority_stream" env:"QUEUE_HIGH_STREAM" default:"feed-refresher:jobs:high"`
	LowPriorityStream  string        `json:"low_priority_stream" env:"QUEUE_LOW_STREAM" default:"feed-refresher:jobs:low"`
	ConsumerGroup      string        `json:"consumer_group" env:"QUEUE_CONSUMER_GROUP" default:"feed-refresher"`
	DedupPrefix        string        `json:"dedup_prefix" env:"QUEUE_DEDUP_PREFIX" default:"feed-refresher"`
	DedupTTL           time.Duration `json:"dedup_ttl" env:"QUEUE_DEDUP_TTL" default:"2h"`
	WorkerCount        int           `json:"worker_count" env:"WORKER_COUNT" default:"4"`
	BatchSize          int64         `json:"batch_size" env:"CONSUMER_BATCH_SIZE" default:"1"`
	BlockTimeout       time.Duration `json:"block_timeout" env:"CONSUMER_BLOCK_TIMEOUT" default:"5s"`
	ClaimIdleTime      time.Duration `json:"claim_idle_time" env:"CONSUMER_CLAIM_IDLE_TIME" default:"10m"`
	ClaimInterval      time.Duration `json:"claim_interval" env:"CONSUMER_CLAIM_INTERVAL" default:"1m"`
	JobTimeout         time.Duration `json:"job_timeout" env:"JOB_TIMEOUT" default:"5m"`
}

type DiscoveryConfig struct {
	Enabled  bool          `json:"enabled" env:"DISCOVERY_ENABLED" default:"true"`
	Interval time.Duration `json:"interval" env:"DISCOVERY_INTERVAL" default:"15m"`
	Timeout  time.Duration `json:"timeout" env:"DISCOVERY_TIMEOUT" default:"5m"`
}

type DownstreamConfig struct {
	ContentFetchURL string        `json:"content_fetch_url" env:"CONTENT_FETCH_URL"`
	SaveContentURL  string        `json:"save_content_url" env:"SAVE_CONTENT_URL"`
	APIToken        string        `json:"-" env:"DOWNSTREAM_API_TOKEN"`
	Timeout         time.Duration `json:"timeout" env:"DOWNSTREAM_TIMEOUT" default:"30s"`
}

type ProcessingConfig struct {
	MaxItemsPerRun int           `json:"max_items_per_run" env:"MAX_ITEMS_PER_RUN" default:"100"`
	OldItemWindow  time.Duration `json:"old_item_window" env:"OLD_ITEM_WINDOW" default:"24h"`
	ParseCacheSize int           `json:"parse_cache_size" env:"PARSE_CACHE_SIZE" default:"256"`
}

type OTelConfig struct {
	Enabled          bool    `json:"enabled" env:"OTEL_ENABLED" default:"false"`
	ServiceName      string  `json:"service_name" env:"OTEL_SERVICE_NAME" default:"feed-refresher"`
	ServiceVersion   string  `json:"service_version" env:"SERVICE_VERSION" default:"dev"`
	Environment      string  `json:"environment" env:"DEPLOYMENT_ENV" default:"development"`
	Endpoint         string  `json:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4318"`
	TraceSampleRatio float64 `json:"trace_sample_ratio" env:"OTEL_TRACE_SAMPLE_RATIO" default:"1.0"`
}
