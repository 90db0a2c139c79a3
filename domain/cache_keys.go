package domain

// FeedFailureKey is the blocklist counter key of a feed.
func FeedFailureKey(feedURL string) string {
	return "feed-fetch-failure:" + feedURL
}

// RecentlySavedKey is the marker set after an item is saved for a user.
func RecentlySavedKey(userID, url string) string {
	return "recent-saved-item:" + userID + ":" + url
}

// JobDedupKey guards against a second outstanding job with the same id.
func JobDedupKey(prefix, jobID string) string {
	return prefix + ":dedup:" + jobID
}
