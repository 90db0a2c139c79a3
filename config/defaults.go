package config

import "time"

const (
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"
	DefaultAccept    = "application/rss+xml, application/rdf+xml;q=0.8, application/atom+xml;q=0.6, application/xml;q=0.4, text/xml, text/html;q=0.4"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9600,
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "feed_refresher",
			Name:     "feeds",
			SSLMode:  "disable",
			MaxConns: 10,
			MinConns: 2,
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		Fetch: FetchConfig{
			Timeout:      60 * time.Second,
			MaxRedirects: 10,
			UserAgent:    DefaultUserAgent,
			Accept:       DefaultAccept,
			MaxBodySize:  10 << 20,
			HostInterval: time.Second,
		},
		Blocklist: BlocklistConfig{
			Threshold: 10,
			TTL:       24 * time.Hour,
		},
		RecentSave: RecentSaveConfig{
			TTL: time.Hour,
		},
		Queue: QueueConfig{
			HighPriorityStream: "feed-refresher:jobs:high",
			LowPriorityStream:  "feed-refresher:jobs:low",
			ConsumerGroup:      "feed-refresher",
			DedupPrefix:        "feed-refresher",
			DedupTTL:           2 * time.Hour,
			WorkerCount:        4,
			BatchSize:          1,
			BlockTimeout:       5 * time.Second,
			ClaimIdleTime:      10 * time.Minute,
			ClaimInterval:      time.Minute,
			JobTimeout:         5 * time.Minute,
		},
		Discovery: DiscoveryConfig{
			Enabled:  true,
			Interval: 15 * time.Minute,
			Timeout:  5 * time.Minute,
		},
		Downstream: DownstreamConfig{
			Timeout: 30 * time.Second,
		},
		Processing: ProcessingConfig{
			MaxItemsPerRun: 100,
			OldItemWindow:  24 * time.Hour,
			ParseCacheSize: 256,
		},
		OTel: OTelConfig{
			Enabled:          false,
			ServiceName:      "feed-refresher",
			ServiceVersion:   "dev",
			Environment:      "development",
			Endpoint:         "http://localhost:4318",
			TraceSampleRatio: 1.0,
		},
		LogLevel: "info",
	}
}
