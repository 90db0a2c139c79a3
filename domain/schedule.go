package domain

import (
	"strconv"
	"strings"
	"time"
)

// UpdatePeriodHours converts a syndication updatePeriod into hours.
// Unknown or missing periods count as hourly.
func UpdatePeriodHours(period string) int {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "daily":
		return 24
	case "weekly":
		return 7 * 24
	case "monthly":
		return 30 * 24
	case "yearly":
		return 365 * 24
	default:
		return 1
	}
}

// UpdateFrequency parses a syndication updateFrequency. Missing, malformed or
// non-positive values count as 1.
func UpdateFrequency(frequency string) int {
	n, err := strconv.Atoi(strings.TrimSpace(frequency))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// RefreshInterval is the cadence the feed declares for itself.
func (f *ParsedFeed) RefreshInterval() time.Duration {
	return time.Duration(UpdatePeriodHours(f.UpdatePeriod)*UpdateFrequency(f.UpdateFrequency)) * time.Hour
}

// NextScheduledAt returns the next check time for a subscriber. The base is
// the subscriber's current scheduled time, or now when it has none.
func NextScheduledAt(scheduledAt *time.Time, feed *ParsedFeed, now time.Time) time.Time {
	base := now
	if scheduledAt != nil && !scheduledAt.IsZero() {
		base = *scheduledAt
	}
	return base.Add(feed.RefreshInterval())
}
