// Package bootstrap builds the application's dependency graph and runs it.
package bootstrap

import (
	"context"
	"fmt"

	"feed-refresher/config"
	"feed-refresher/consumer"
	"feed-refresher/driver"
	"feed-refresher/gateway/blocklist_gateway"
	"feed-refresher/gateway/fetch_feed_gateway"
	"feed-refresher/gateway/job_queue_gateway"
	"feed-refresher/job"
	"feed-refresher/parser"
	"feed-refresher/rest"
	"feed-refresher/usecase/discover_feeds_usecase"
	"feed-refresher/usecase/enqueue_refresh_usecase"
	"feed-refresher/usecase/refresh_feed_usecase"
	"feed-refresher/utils/rate_limiter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config      *config.Config
	DBPool      *pgxpool.Pool
	RedisClient *redis.Client

	DiscoverFeeds  *discover_feeds_usecase.DiscoverFeedsUsecase
	EnqueueRefresh *enqueue_refresh_usecase.EnqueueRefreshUsecase
	Consumer       *consumer.Consumer
	Scheduler      *job.JobScheduler
	Components     *rest.Components
}

// BuildDependencies connects to Postgres and Redis and wires every component.
// The returned cleanup closes both connections.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	dbPool, err := driver.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := driver.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = redisClient.Close()
		dbPool.Close()
	}

	// Drivers
	subscriptionDriver := driver.NewSubscriptionDriver(dbPool)
	failureCounter := driver.NewFailureCounterDriver(redisClient, cfg.Blocklist.TTL)
	recentSaves := driver.NewRecentSaveDriver(redisClient, cfg.RecentSave.TTL)
	queueDriver := driver.NewJobQueueDriver(redisClient, driver.StreamConfig{
		HighPriorityStream: cfg.Queue.HighPriorityStream,
		LowPriorityStream:  cfg.Queue.LowPriorityStream,
		ConsumerGroup:      cfg.Queue.ConsumerGroup,
		DedupPrefix:        cfg.Queue.DedupPrefix,
		DedupTTL:           cfg.Queue.DedupTTL,
	})
	fetchDriver := driver.NewFeedFetchDriver(driver.FetchOptions{
		Timeout:      cfg.Fetch.Timeout,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		UserAgent:    cfg.Fetch.UserAgent,
		Accept:       cfg.Fetch.Accept,
		MaxBodySize:  cfg.Fetch.MaxBodySize,
	})
	downstream := driver.NewDownstreamAPIDriver(
		cfg.Downstream.ContentFetchURL,
		cfg.Downstream.SaveContentURL,
		cfg.Downstream.APIToken,
		cfg.Downstream.Timeout,
	)

	// Gateways
	blocklist := blocklist_gateway.NewBlocklistGateway(failureCounter, cfg.Blocklist.Threshold)
	fetcher := fetch_feed_gateway.NewFetchFeedGateway(fetchDriver, rate_limiter.NewHostRateLimiter(cfg.Fetch.HostInterval))
	queue := job_queue_gateway.NewJobQueueGateway(queueDriver)

	feedParser, err := parser.NewCachingParser(parser.NewParser(fetcher), cfg.Processing.ParseCacheSize)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create parse cache: %w", err)
	}

	// Usecases
	processor := refresh_feed_usecase.NewSubscriberProcessor(subscriptionDriver, recentSaves, downstream, refresh_feed_usecase.ProcessorConfig{
		MaxItemsPerRun: cfg.Processing.MaxItemsPerRun,
		OldItemWindow:  cfg.Processing.OldItemWindow,
	})
	dispatcher := refresh_feed_usecase.NewContentTaskDispatcher(downstream, recentSaves)
	refreshFeed := refresh_feed_usecase.NewRefreshFeedUsecase(blocklist, fetcher, feedParser, subscriptionDriver, processor, dispatcher)
	discoverFeeds := discover_feeds_usecase.NewDiscoverFeedsUsecase(subscriptionDriver, queue)
	enqueueRefresh := enqueue_refresh_usecase.NewEnqueueRefreshUsecase(queue)

	// Workers
	jobConsumer := consumer.NewConsumer(queueDriver, consumer.NewFeedJobHandler(refreshFeed, discoverFeeds), consumer.Config{
		WorkerCount:   cfg.Queue.WorkerCount,
		BatchSize:     cfg.Queue.BatchSize,
		BlockTimeout:  cfg.Queue.BlockTimeout,
		ClaimIdleTime: cfg.Queue.ClaimIdleTime,
		ClaimInterval: cfg.Queue.ClaimInterval,
		JobTimeout:    cfg.Queue.JobTimeout,
	})

	scheduler := job.NewJobScheduler()
	if cfg.Discovery.Enabled {
		scheduler.Add(job.RefreshAllFeedsJob(enqueueRefresh, cfg.Discovery.Interval, cfg.Discovery.Timeout))
	}

	components := &rest.Components{
		Refresh: enqueueRefresh,
		HealthChecks: []rest.HealthCheck{
			{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
			{Name: "postgres", Ping: subscriptionDriver.Ping},
		},
	}

	return &Dependencies{
		Config:         cfg,
		DBPool:         dbPool,
		RedisClient:    redisClient,
		DiscoverFeeds:  discoverFeeds,
		EnqueueRefresh: enqueueRefresh,
		Consumer:       jobConsumer,
		Scheduler:      scheduler,
		Components:     components,
	}, cleanup, nil
}
