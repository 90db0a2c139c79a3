package driver

import (
	"context"
	"fmt"
	"time"

	"feed-refresher/domain"

	"github.com/jackc/pgx/v5"
)

const dueSubscriptionsQuery = `
	SELECT id, user_id, url, type, status, last_fetched_checksum,
	       most_recent_item_date, scheduled_at, fetch_content_type, folder,
	       refreshed_at, failed_at
	FROM subscriptions
	WHERE type = 'RSS'
	  AND status = 'ACTIVE'
	  AND (scheduled_at IS NULL OR scheduled_at <= $1)`

// SubscriptionDriver reads and writes the subscriptions table.
type SubscriptionDriver struct {
	db PgxIface
}

func NewSubscriptionDriver(db PgxIface) *SubscriptionDriver {
	return &SubscriptionDriver{db: db}
}

// FetchDueSubscriptions returns active RSS subscriptions due at filter.Now,
// ordered by url then id.
func (d *SubscriptionDriver) FetchDueSubscriptions(ctx context.Context, filter domain.DueSubscriptionFilter) ([]domain.Subscription, error) {
	query := dueSubscriptionsQuery
	args := []any{filter.Now}
	if filter.UserID != "" {
		query += "\n\t  AND user_id = $2"
		args = append(args, filter.UserID)
	}
	query += "\n\tORDER BY url, id"

	var subs []domain.Subscription
	err := retryDBOperation(ctx, func() error {
		rows, err := d.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		subs = subs[:0]
		for rows.Next() {
			sub, err := scanSubscription(rows)
			if err != nil {
				return err
			}
			subs = append(subs, sub)
		}
		return rows.Err()
	}, "FetchDueSubscriptions")
	if err != nil {
		return nil, fmt.Errorf("fetch due subscriptions: %w", err)
	}

	return subs, nil
}

// UpdateRefreshState persists one subscriber's refresh result. The most recent
// item date never moves backwards.
func (d *SubscriptionDriver) UpdateRefreshState(ctx context.Context, update domain.RefreshStateUpdate) error {
	return retryDBOperation(ctx, func() error {
		tx, err := d.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		tag, err := tx.Exec(ctx, `
			UPDATE subscriptions
			SET most_recent_item_date = GREATEST(most_recent_item_date, $2),
			    last_fetched_checksum = $3,
			    scheduled_at = $4,
			    refreshed_at = $5,
			    failed_at = $6,
			    updated_at = $5
			WHERE id = $1 AND user_id = $7`,
			update.SubscriptionID,
			update.MostRecentItemDate,
			nullableString(update.LastFetchedChecksum),
			update.ScheduledAt,
			update.RefreshedAt,
			update.FailedAt,
			update.UserID,
		)
		if err != nil {
			return fmt.Errorf("update subscription %s: %w", update.SubscriptionID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update subscription %s: %w", update.SubscriptionID, pgx.ErrNoRows)
		}

		return tx.Commit(ctx)
	}, "UpdateRefreshState")
}

// MarkSubscriptionsFailed sets refreshed-at and failed-at to at for every id.
func (d *SubscriptionDriver) MarkSubscriptionsFailed(ctx context.Context, subscriptionIDs []string, at time.Time) error {
	if len(subscriptionIDs) == 0 {
		return nil
	}

	return retryDBOperation(ctx, func() error {
		_, err := d.db.Exec(ctx, `
			UPDATE subscriptions
			SET refreshed_at = $2, failed_at = $2, updated_at = $2
			WHERE id = ANY($1)`,
			subscriptionIDs, at,
		)
		if err != nil {
			return fmt.Errorf("mark subscriptions failed: %w", err)
		}
		return nil
	}, "MarkSubscriptionsFailed")
}

// Ping checks database connectivity.
func (d *SubscriptionDriver) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var (
		sub              domain.Subscription
		status           string
		checksum         *string
		fetchContentType *string
		folder           *string
	)

	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.URL,
		&sub.Type,
		&status,
		&checksum,
		&sub.MostRecentItemDate,
		&sub.ScheduledAt,
		&fetchContentType,
		&folder,
		&sub.RefreshedAt,
		&sub.FailedAt,
	)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}

	sub.Status = domain.SubscriptionStatus(status)
	if checksum != nil {
		sub.LastFetchedChecksum = *checksum
	}
	sub.FetchContentType = domain.ParseFetchContentType(deref(fetchContentType))
	sub.Folder = domain.ParseFolder(deref(folder))

	return sub, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
