package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefreshKind tells what triggered a discovery run.
type RefreshKind string

const (
	RefreshKindAll       RefreshKind = "all"
	RefreshKindUserAdded RefreshKind = "user-added"
)

// RefreshContext correlates every job enqueued by one discovery run.
// It is only carried through jobs and logs.
type RefreshContext struct {
	Kind      RefreshKind `json:"type"`
	RunID     string      `json:"refreshID"`
	StartedAt time.Time   `json:"startedAt"`
	UserID    string      `json:"userId,omitempty"`
}

// NewRefreshContext creates a RefreshContext with a fresh run id.
func NewRefreshContext(kind RefreshKind, userID string, now time.Time) *RefreshContext {
	return &RefreshContext{
		Kind:      kind,
		RunID:     uuid.New().String(),
		StartedAt: now,
		UserID:    userID,
	}
}

// LogAttrs returns the context as key/value pairs for slog.
func (rc *RefreshContext) LogAttrs() []any {
	if rc == nil {
		return nil
	}
	return []any{"refresh_kind", string(rc.Kind), "refresh_id", rc.RunID}
}
