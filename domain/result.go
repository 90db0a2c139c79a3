package domain

// DiscoveryResult summarizes one discovery pass.
type DiscoveryResult struct {
	Groups     int
	Enqueued   int
	Duplicates int
	Failed     int
}

// SubscriberStatus is how a subscriber's refresh ended.
type SubscriberStatus string

const (
	// SubscriberUnchanged means the feed checksum matched the stored one.
	SubscriberUnchanged SubscriberStatus = "unchanged"
	// SubscriberStale means the feed was not rebuilt since the last item seen.
	SubscriberStale SubscriberStatus = "stale"
	// SubscriberNothingNew means no new item was found for an established subscriber.
	SubscriberNothingNew SubscriberStatus = "nothing_new"
	// SubscriberUpdated means new state was persisted.
	SubscriberUpdated SubscriberStatus = "updated"
	// SubscriberFailed means the subscriber could not be processed.
	SubscriberFailed SubscriberStatus = "failed"
)

// SubscriberOutcome is the result of processing one subscriber.
type SubscriberOutcome struct {
	SubscriptionID string
	Status         SubscriberStatus
	Handled        int
	Skipped        int
	Failed         int
	// Seeded is set when the latest item was force-handled for a new subscriber.
	Seeded bool
}

// RefreshResult summarizes one refresh-feed job.
type RefreshResult struct {
	FeedURL            string
	ItemCount          int
	Subscribers        []SubscriberOutcome
	ContentTasks       int
	DispatchFailures   int
	ContentFetchDenied bool
}
