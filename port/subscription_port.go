// Package port defines interfaces for external dependencies.
package port

import (
	"context"
	"time"

	"feed-refresher/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=subscription_port.go -destination=../mocks/mock_subscription_port.go -package=mocks

// SubscriptionPort reads and updates feed subscriptions.
type SubscriptionPort interface {
	// FetchDueSubscriptions returns active feed subscriptions whose scheduled
	// check is unset or not after filter.Now, ordered by url.
	FetchDueSubscriptions(ctx context.Context, filter domain.DueSubscriptionFilter) ([]domain.Subscription, error)

	// UpdateRefreshState persists one subscriber's state after a refresh.
	UpdateRefreshState(ctx context.Context, update domain.RefreshStateUpdate) error

	// MarkSubscriptionsFailed sets refreshed-at and failed-at on every id.
	MarkSubscriptionsFailed(ctx context.Context, subscriptionIDs []string, at time.Time) error
}
