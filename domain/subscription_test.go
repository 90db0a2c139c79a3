package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSubscriptions(t *testing.T) {
	subs := []Subscription{
		{ID: "s1", UserID: "u1", URL: "https://b.example.com/rss", FetchContentType: FetchContentAlways, Folder: FolderFollowing},
		{ID: "s2", UserID: "u2", URL: "https://a.example.com/rss", FetchContentType: FetchContentNever, Folder: FolderInbox},
		{ID: "s3", UserID: "u3", URL: "https://b.example.com/rss", LastFetchedChecksum: "c3", FetchContentType: FetchContentWhenEmpty, Folder: FolderFollowing},
	}

	groups := GroupSubscriptions(subs)

	require.Len(t, groups, 2)
	assert.Equal(t, "https://b.example.com/rss", groups[0].FeedURL)
	assert.Equal(t, []string{"s1", "s3"}, groups[0].SubscriptionIDs())
	assert.Equal(t, "c3", groups[0].Subscribers[1].LastFetchedChecksum)
	assert.Equal(t, FetchContentWhenEmpty, groups[0].Subscribers[1].FetchContentType)

	assert.Equal(t, "https://a.example.com/rss", groups[1].FeedURL)
	assert.Equal(t, FolderInbox, groups[1].Subscribers[0].Folder)
}

func TestParseFetchContentType(t *testing.T) {
	assert.Equal(t, FetchContentNever, ParseFetchContentType("never"))
	assert.Equal(t, FetchContentWhenEmpty, ParseFetchContentType("WHEN_EMPTY"))
	assert.Equal(t, FetchContentAlways, ParseFetchContentType(""))
	assert.Equal(t, FetchContentAlways, ParseFetchContentType("bogus"))
}

func TestParseFolder(t *testing.T) {
	assert.Equal(t, FolderInbox, ParseFolder("Inbox"))
	assert.Equal(t, FolderFollowing, ParseFolder("following"))
	assert.Equal(t, FolderFollowing, ParseFolder(""))
}
