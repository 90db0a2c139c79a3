package driver

import (
	"context"
	"fmt"
	"time"

	"feed-refresher/domain"

	"github.com/redis/go-redis/v9"
)

// RecentSaveDriver marks items saved for a user so replays within the TTL do
// not save them again.
type RecentSaveDriver struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecentSaveDriver(client *redis.Client, ttl time.Duration) *RecentSaveDriver {
	return &RecentSaveDriver{client: client, ttl: ttl}
}

func (d *RecentSaveDriver) IsRecentlySaved(ctx context.Context, userID, url string) (bool, error) {
	n, err := d.client.Exists(ctx, domain.RecentlySavedKey(userID, url)).Result()
	if err != nil {
		return false, fmt.Errorf("check recently saved: %w", err)
	}
	return n > 0, nil
}

func (d *RecentSaveDriver) MarkRecentlySaved(ctx context.Context, userID, url string) error {
	if err := d.client.Set(ctx, domain.RecentlySavedKey(userID, url), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("mark recently saved: %w", err)
	}
	return nil
}
