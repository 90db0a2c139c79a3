package domain

import (
	"strings"
	"time"
)

// FetchResult is the raw response of a feed fetch.
type FetchResult struct {
	URL         string
	Content     []byte
	ContentType string
	// Checksum is the hex sha256 of Content.
	Checksum string
}

// FeedType is the detected format of a parsed feed.
type FeedType string

const (
	FeedTypeRSS      FeedType = "rss"
	FeedTypeAtom     FeedType = "atom"
	FeedTypeJSON     FeedType = "json"
	FeedTypeTelegram FeedType = "telegram"
)

// ParsedFeed is the normalized result of parsing a FetchResult.
type ParsedFeed struct {
	Title         string
	Type          FeedType
	LastBuildDate *time.Time
	// UpdatePeriod and UpdateFrequency are the raw syndication module hints.
	UpdatePeriod    string
	UpdateFrequency string
	Items           []FeedItem
	// SourceChecksum is set when the items were read from a document other
	// than the fetched one.
	SourceChecksum string
}

// ChecksumOr returns SourceChecksum, or fetched when the items came from the
// fetched document.
func (f *ParsedFeed) ChecksumOr(fetched string) string {
	if f.SourceChecksum != "" {
		return f.SourceChecksum
	}
	return fetched
}

// LinkRel values that influence canonical link selection.
const (
	LinkRelVia       = "via"
	LinkRelAlternate = "alternate"
	LinkRelSelf      = "self"
)

// ItemLink is one link element of a feed item. Plain is set for bare hrefs
// that did not come from a link element with attributes.
type ItemLink struct {
	Href  string
	Rel   string
	Plain bool
}

// FeedItem is one entry of a parsed feed.
type FeedItem struct {
	GUID        string
	Title       string
	Links       []ItemLink
	PublishedAt *time.Time
	Author      string
	Content     string
	Summary     string
	Thumbnail   string
}

// HasInlineContent reports whether the feed supplied a body for the item.
func (i FeedItem) HasInlineContent() bool {
	return strings.TrimSpace(i.Content) != "" || strings.TrimSpace(i.Summary) != ""
}

// PreviewContent returns the feed supplied body, preferring full content.
func (i FeedItem) PreviewContent() string {
	if strings.TrimSpace(i.Content) != "" {
		return i.Content
	}
	return i.Summary
}

// PublishedOr returns the item's publish time, or fallback when it has none.
func (i FeedItem) PublishedOr(fallback time.Time) time.Time {
	if i.PublishedAt == nil {
		return fallback
	}
	return *i.PublishedAt
}
