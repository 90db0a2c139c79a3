package config

import (
	"fmt"
	"net/url"
)

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}

	if config.Database.MaxConns <= 0 {
		return fmt.Errorf("database max conns must be positive: %d", config.Database.MaxConns)
	}

	if config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database min conns must be between 0 and max conns: %d", config.Database.MinConns)
	}

	if config.Redis.URL == "" {
		return fmt.Errorf("redis URL cannot be empty")
	}

	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive: %v", config.Fetch.Timeout)
	}

	if config.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must be non-negative: %d", config.Fetch.MaxRedirects)
	}

	if config.Fetch.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be positive: %d", config.Fetch.MaxBodySize)
	}

	if config.Fetch.HostInterval < 0 {
		return fmt.Errorf("host interval must be non-negative: %v", config.Fetch.HostInterval)
	}

	if config.Blocklist.Threshold <= 0 {
		return fmt.Errorf("feed failure threshold must be positive: %d", config.Blocklist.Threshold)
	}

	if config.Blocklist.TTL <= 0 {
		return fmt.Errorf("feed failure TTL must be positive: %v", config.Blocklist.TTL)
	}

	if config.RecentSave.TTL <= 0 {
		return fmt.Errorf("recently saved TTL must be positive: %v", config.RecentSave.TTL)
	}

	if err := validateQueueConfig(config.Queue); err != nil {
		return err
	}

	if config.Discovery.Enabled && config.Discovery.Interval <= 0 {
		return fmt.Errorf("discovery interval must be positive: %v", config.Discovery.Interval)
	}

	if config.Discovery.Timeout <= 0 {
		return fmt.Errorf("discovery timeout must be positive: %v", config.Discovery.Timeout)
	}

	if err := validateEndpoint("content fetch URL", config.Downstream.ContentFetchURL); err != nil {
		return err
	}

	if err := validateEndpoint("save content URL", config.Downstream.SaveContentURL); err != nil {
		return err
	}

	if config.Downstream.Timeout <= 0 {
		return fmt.Errorf("downstream timeout must be positive: %v", config.Downstream.Timeout)
	}

	if config.Processing.MaxItemsPerRun <= 0 {
		return fmt.Errorf("max items per run must be positive: %d", config.Processing.MaxItemsPerRun)
	}

	if config.Processing.OldItemWindow <= 0 {
		return fmt.Errorf("old item window must be positive: %v", config.Processing.OldItemWindow)
	}

	if config.Processing.ParseCacheSize <= 0 {
		return fmt.Errorf("parse cache size must be positive: %d", config.Processing.ParseCacheSize)
	}

	if config.OTel.TraceSampleRatio < 0 || config.OTel.TraceSampleRatio > 1 {
		return fmt.Errorf("trace sample ratio must be between 0 and 1: %f", config.OTel.TraceSampleRatio)
	}

	return nil
}

func validateQueueConfig(cfg QueueConfig) error {
	if cfg.HighPriorityStream == "" || cfg.LowPriorityStream == "" {
		return fmt.Errorf("queue stream names cannot be empty")
	}

	if cfg.HighPriorityStream == cfg.LowPriorityStream {
		return fmt.Errorf("queue streams must differ: %s", cfg.HighPriorityStream)
	}

	if cfg.ConsumerGroup == "" {
		return fmt.Errorf("consumer group cannot be empty")
	}

	if cfg.DedupTTL <= 0 {
		return fmt.Errorf("dedup TTL must be positive: %v", cfg.DedupTTL)
	}

	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive: %d", cfg.WorkerCount)
	}

	if cfg.BatchSize <= 0 {
		return fmt.Errorf("consumer batch size must be positive: %d", cfg.BatchSize)
	}

	if cfg.BlockTimeout <= 0 {
		return fmt.Errorf("consumer block timeout must be positive: %v", cfg.BlockTimeout)
	}

	if cfg.ClaimIdleTime <= 0 {
		return fmt.Errorf("claim idle time must be positive: %v", cfg.ClaimIdleTime)
	}

	if cfg.JobTimeout <= 0 {
		return fmt.Errorf("job timeout must be positive: %v", cfg.JobTimeout)
	}

	return nil
}

// validateEndpoint accepts an empty value; a disabled downstream client
// rejects requests at call time.
func validateEndpoint(name, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", name, raw)
	}
	return nil
}
