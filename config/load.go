package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadConfig builds the configuration from defaults, an optional .env file and
// environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadDatabaseConfig(&config.Database); err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	config.Redis.URL = parseStringEnv("REDIS_URL", config.Redis.URL)

	if err := loadFetchConfig(&config.Fetch); err != nil {
		return fmt.Errorf("failed to load fetch config: %w", err)
	}

	if err := loadBlocklistConfig(&config.Blocklist); err != nil {
		return fmt.Errorf("failed to load blocklist config: %w", err)
	}

	var err error
	if config.RecentSave.TTL, err = parseDurationEnv("RECENTLY_SAVED_TTL", config.RecentSave.TTL); err != nil {
		return fmt.Errorf("failed to load recent save config: %w", err)
	}

	if err := loadQueueConfig(&config.Queue); err != nil {
		return fmt.Errorf("failed to load queue config: %w", err)
	}

	if err := loadDiscoveryConfig(&config.Discovery); err != nil {
		return fmt.Errorf("failed to load discovery config: %w", err)
	}

	if err := loadDownstreamConfig(&config.Downstream); err != nil {
		return fmt.Errorf("failed to load downstream config: %w", err)
	}

	if err := loadProcessingConfig(&config.Processing); err != nil {
		return fmt.Errorf("failed to load processing config: %w", err)
	}

	if err := loadOTelConfig(&config.OTel); err != nil {
		return fmt.Errorf("failed to load otel config: %w", err)
	}

	config.LogLevel = parseStringEnv("LOG_LEVEL", config.LogLevel)

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}

	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}

	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig) error {
	var err error

	cfg.URL = parseStringEnv("DATABASE_URL", cfg.URL)
	cfg.Host = parseStringEnv("DB_HOST", cfg.Host)
	cfg.User = parseStringEnv("DB_USER", cfg.User)
	cfg.Password = parseStringEnv("DB_PASSWORD", cfg.Password)
	cfg.Name = parseStringEnv("DB_NAME", cfg.Name)
	cfg.SSLMode = parseStringEnv("DB_SSL_MODE", cfg.SSLMode)

	if cfg.Port, err = parseIntEnv("DB_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.MaxConns, err = parseIntEnv("DB_MAX_CONNS", cfg.MaxConns); err != nil {
		return err
	}

	if cfg.MinConns, err = parseIntEnv("DB_MIN_CONNS", cfg.MinConns); err != nil {
		return err
	}

	return nil
}

func loadFetchConfig(cfg *FetchConfig) error {
	var err error

	if cfg.Timeout, err = parseDurationEnv("FETCH_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.MaxRedirects, err = parseIntEnv("FETCH_MAX_REDIRECTS", cfg.MaxRedirects); err != nil {
		return err
	}

	cfg.UserAgent = parseStringEnv("FETCH_USER_AGENT", cfg.UserAgent)
	cfg.Accept = parseStringEnv("FETCH_ACCEPT", cfg.Accept)

	if cfg.MaxBodySize, err = parseInt64Env("FETCH_MAX_BODY_SIZE", cfg.MaxBodySize); err != nil {
		return err
	}

	if cfg.HostInterval, err = parseDurationEnv("FETCH_HOST_INTERVAL", cfg.HostInterval); err != nil {
		return err
	}

	return nil
}

func loadBlocklistConfig(cfg *BlocklistConfig) error {
	var err error

	if cfg.Threshold, err = parseInt64Env("MAX_FEED_FETCH_FAILURES", cfg.Threshold); err != nil {
		return err
	}

	if cfg.TTL, err = parseDurationEnv("FEED_FAILURE_TTL", cfg.TTL); err != nil {
		return err
	}

	return nil
}

func loadQueueConfig(cfg *QueueConfig) error {
	var err error

	cfg.HighPriorityStream = parseStringEnv("QUEUE_HIGH_STREAM", cfg.HighPriorityStream)
	cfg.LowPriorityStream = parseStringEnv("QUEUE_LOW_STREAM", cfg.LowPriorityStream)
	cfg.ConsumerGroup = parseStringEnv("QUEUE_CONSUMER_GROUP", cfg.ConsumerGroup)
	cfg.DedupPrefix = parseStringEnv("QUEUE_DEDUP_PREFIX", cfg.DedupPrefix)

	if cfg.DedupTTL, err = parseDurationEnv("QUEUE_DEDUP_TTL", cfg.DedupTTL); err != nil {
		return err
	}

	if cfg.WorkerCount, err = parseIntEnv("WORKER_COUNT", cfg.WorkerCount); err != nil {
		return err
	}

	if cfg.BatchSize, err = parseInt64Env("CONSUMER_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}

	if cfg.BlockTimeout, err = parseDurationEnv("CONSUMER_BLOCK_TIMEOUT", cfg.BlockTimeout); err != nil {
		return err
	}

	if cfg.ClaimIdleTime, err = parseDurationEnv("CONSUMER_CLAIM_IDLE_TIME", cfg.ClaimIdleTime); err != nil {
		return err
	}

	if cfg.ClaimInterval, err = parseDurationEnv("CONSUMER_CLAIM_INTERVAL", cfg.ClaimInterval); err != nil {
		return err
	}

	if cfg.JobTimeout, err = parseDurationEnv("JOB_TIMEOUT", cfg.JobTimeout); err != nil {
		return err
	}

	return nil
}

func loadDiscoveryConfig(cfg *DiscoveryConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("DISCOVERY_ENABLED", cfg.Enabled); err != nil {
		return err
	}

	if cfg.Interval, err = parseDurationEnv("DISCOVERY_INTERVAL", cfg.Interval); err != nil {
		return err
	}

	if cfg.Timeout, err = parseDurationEnv("DISCOVERY_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadDownstreamConfig(cfg *DownstreamConfig) error {
	var err error

	cfg.ContentFetchURL = parseStringEnv("CONTENT_FETCH_URL", cfg.ContentFetchURL)
	cfg.SaveContentURL = parseStringEnv("SAVE_CONTENT_URL", cfg.SaveContentURL)
	cfg.APIToken = parseStringEnv("DOWNSTREAM_API_TOKEN", cfg.APIToken)

	if cfg.Timeout, err = parseDurationEnv("DOWNSTREAM_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadProcessingConfig(cfg *ProcessingConfig) error {
	var err error

	if cfg.MaxItemsPerRun, err = parseIntEnv("MAX_ITEMS_PER_RUN", cfg.MaxItemsPerRun); err != nil {
		return err
	}

	if cfg.OldItemWindow, err = parseDurationEnv("OLD_ITEM_WINDOW", cfg.OldItemWindow); err != nil {
		return err
	}

	if cfg.ParseCacheSize, err = parseIntEnv("PARSE_CACHE_SIZE", cfg.ParseCacheSize); err != nil {
		return err
	}

	return nil
}

func loadOTelConfig(cfg *OTelConfig) error {
	var err error

	if cfg.Enabled, err = parseBoolEnv("OTEL_ENABLED", cfg.Enabled); err != nil {
		return err
	}

	cfg.ServiceName = parseStringEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.ServiceVersion = parseStringEnv("SERVICE_VERSION", cfg.ServiceVersion)
	cfg.Environment = parseStringEnv("DEPLOYMENT_ENV", cfg.Environment)
	cfg.Endpoint = parseStringEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Endpoint)

	if cfg.TraceSampleRatio, err = parseFloatEnv("OTEL_TRACE_SAMPLE_RATIO", cfg.TraceSampleRatio); err != nil {
		return err
	}

	return nil
}

func parseStringEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return d, nil
	}
	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return i, nil
	}
	return defaultValue, nil
}

func parseInt64Env(key string, defaultValue int64) (int64, error) {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return i, nil
	}
	return defaultValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return b, nil
	}
	return defaultValue, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return f, nil
	}
	return defaultValue, nil
}
