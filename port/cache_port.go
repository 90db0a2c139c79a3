package port

import (
	"context"
)

//go:generate go run go.uber.org/mock/mockgen -source=cache_port.go -destination=../mocks/mock_cache_port.go -package=mocks

// BlocklistPort tracks consecutive fetch failures per feed URL.
type BlocklistPort interface {
	// IsBlocked reports whether the feed failed too often to be fetched now.
	IsBlocked(ctx context.Context, feedURL string) (bool, error)
	// RecordFailure increments the failure counter and renews its expiry.
	RecordFailure(ctx context.Context, feedURL string) (int64, error)
}

// RecentSavePort guards against saving the same item for a user twice in a
// short window.
type RecentSavePort interface {
	IsRecentlySaved(ctx context.Context, userID, url string) (bool, error)
	MarkRecentlySaved(ctx context.Context, userID, url string) error
}
