// Package domain contains core domain types for the feed refresher.
package domain

import (
	"strings"
	"time"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive       SubscriptionStatus = "ACTIVE"
	SubscriptionStatusUnsubscribed SubscriptionStatus = "UNSUBSCRIBED"
	SubscriptionStatusError        SubscriptionStatus = "ERROR"
)

// SubscriptionTypeRSS is the only subscription type refreshed by this service.
const SubscriptionTypeRSS = "RSS"

// FetchContentType decides whether an item's full body is fetched separately
// from the content the feed supplies.
type FetchContentType string

const (
	FetchContentAlways    FetchContentType = "ALWAYS"
	FetchContentNever     FetchContentType = "NEVER"
	FetchContentWhenEmpty FetchContentType = "WHEN_EMPTY"
)

// ParseFetchContentType maps a stored value to a FetchContentType.
// Unknown or empty values fall back to FetchContentAlways.
func ParseFetchContentType(s string) FetchContentType {
	switch FetchContentType(strings.ToUpper(strings.TrimSpace(s))) {
	case FetchContentNever:
		return FetchContentNever
	case FetchContentWhenEmpty:
		return FetchContentWhenEmpty
	default:
		return FetchContentAlways
	}
}

// IsValid reports whether t is one of the known strategies.
func (t FetchContentType) IsValid() bool {
	switch t {
	case FetchContentAlways, FetchContentNever, FetchContentWhenEmpty:
		return true
	}
	return false
}

// Folder is the library folder new items are saved into.
type Folder string

const (
	FolderFollowing Folder = "following"
	FolderInbox     Folder = "inbox"
)

// ParseFolder maps a stored value to a Folder, defaulting to FolderFollowing.
func ParseFolder(s string) Folder {
	if Folder(strings.ToLower(strings.TrimSpace(s))) == FolderInbox {
		return FolderInbox
	}
	return FolderFollowing
}

// Subscription is the persisted record of one user following one feed.
type Subscription struct {
	ID                  string
	UserID              string
	URL                 string
	Type                string
	Status              SubscriptionStatus
	LastFetchedChecksum string
	MostRecentItemDate  *time.Time
	ScheduledAt         *time.Time
	FetchContentType    FetchContentType
	Folder              Folder
	RefreshedAt         *time.Time
	FailedAt            *time.Time
}

// Subscriber returns the per-run view of the subscription carried in jobs.
func (s Subscription) Subscriber() Subscriber {
	return Subscriber{
		SubscriptionID:      s.ID,
		UserID:              s.UserID,
		MostRecentItemDate:  s.MostRecentItemDate,
		ScheduledAt:         s.ScheduledAt,
		LastFetchedChecksum: s.LastFetchedChecksum,
		FetchContentType:    s.FetchContentType,
		Folder:              s.Folder,
	}
}

// Subscriber is one subscription's refresh state inside a SubscriptionGroup.
type Subscriber struct {
	SubscriptionID      string           `json:"subscriptionId"`
	UserID              string           `json:"userId"`
	MostRecentItemDate  *time.Time       `json:"mostRecentItemDate,omitempty"`
	ScheduledAt         *time.Time       `json:"scheduledAt,omitempty"`
	LastFetchedChecksum string           `json:"lastFetchedChecksum,omitempty"`
	FetchContentType    FetchContentType `json:"fetchContentType"`
	Folder              Folder           `json:"folder"`
}

// HasBeenRefreshed reports whether the subscriber has a most-recent-item date.
func (s Subscriber) HasBeenRefreshed() bool {
	return s.MostRecentItemDate != nil && !s.MostRecentItemDate.IsZero()
}

// SubscriptionGroup is every due subscription sharing one feed URL.
// It is built fresh on every discovery pass and never persisted.
type SubscriptionGroup struct {
	FeedURL     string
	Subscribers []Subscriber
}

// SubscriptionIDs returns the subscription ids in group order.
func (g SubscriptionGroup) SubscriptionIDs() []string {
	ids := make([]string, 0, len(g.Subscribers))
	for _, s := range g.Subscribers {
		ids = append(ids, s.SubscriptionID)
	}
	return ids
}

// GroupSubscriptions groups subscriptions by feed URL, keeping the order in
// which URLs first appear.
func GroupSubscriptions(subs []Subscription) []SubscriptionGroup {
	index := make(map[string]int)
	groups := make([]SubscriptionGroup, 0)

	for _, sub := range subs {
		i, ok := index[sub.URL]
		if !ok {
			i = len(groups)
			index[sub.URL] = i
			groups = append(groups, SubscriptionGroup{FeedURL: sub.URL})
		}
		groups[i].Subscribers = append(groups[i].Subscribers, sub.Subscriber())
	}

	return groups
}

// DueSubscriptionFilter narrows the discovery query.
type DueSubscriptionFilter struct {
	Now time.Time
	// UserID restricts discovery to one user's subscriptions when set.
	UserID string
}

// RefreshStateUpdate is the state persisted for one subscriber after a refresh.
type RefreshStateUpdate struct {
	SubscriptionID      string
	UserID              string
	MostRecentItemDate  *time.Time
	LastFetchedChecksum string
	ScheduledAt         time.Time
	RefreshedAt         time.Time
	FailedAt            *time.Time
}
