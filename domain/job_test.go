package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroup() SubscriptionGroup {
	recent := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return SubscriptionGroup{
		FeedURL: "https://example.com/feed.xml",
		Subscribers: []Subscriber{
			{SubscriptionID: "sub-2", UserID: "user-2", FetchContentType: FetchContentNever, Folder: FolderInbox},
			{SubscriptionID: "sub-1", UserID: "user-1", MostRecentItemDate: &recent, LastFetchedChecksum: "abc", FetchContentType: FetchContentAlways, Folder: FolderFollowing},
		},
	}
}

func TestRefreshFeedJobID(t *testing.T) {
	group := testGroup()

	reordered := group
	reordered.Subscribers = []Subscriber{group.Subscribers[1], group.Subscribers[0]}

	otherURL := group
	otherURL.FeedURL = "https://example.com/other.xml"

	fewer := group
	fewer.Subscribers = group.Subscribers[:1]

	id := RefreshFeedJobID(group)
	assert.Regexp(t, `^refresh-feed:[0-9a-f]{64}$`, id)
	assert.Equal(t, id, RefreshFeedJobID(reordered), "subscriber order must not change the id")
	assert.NotEqual(t, id, RefreshFeedJobID(otherURL))
	assert.NotEqual(t, id, RefreshFeedJobID(fewer))
}

func TestDecodeJob_RoundTripsRefreshFeed(t *testing.T) {
	rc := NewRefreshContext(RefreshKindAll, "", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	job := NewRefreshFeedJob(testGroup(), rc)

	payload, err := job.Payload()
	require.NoError(t, err)

	decoded, err := DecodeJob(job.ID, string(job.Name), payload)
	require.NoError(t, err)

	require.NotNil(t, decoded.RefreshFeed)
	assert.Nil(t, decoded.RefreshAllFeeds)
	assert.Equal(t, job.RefreshFeed.FeedURL, decoded.RefreshFeed.FeedURL)
	require.Len(t, decoded.RefreshFeed.Subscribers, 2)
	assert.Equal(t, FolderInbox, decoded.RefreshFeed.Subscribers[0].Folder)
	assert.Equal(t, "abc", decoded.RefreshFeed.Subscribers[1].LastFetchedChecksum)
	assert.True(t, decoded.RefreshFeed.Subscribers[1].MostRecentItemDate.Equal(*job.RefreshFeed.Subscribers[1].MostRecentItemDate))
	assert.Equal(t, rc.RunID, decoded.RefreshFeed.RefreshContext.RunID)
}

func TestDecodeJob_LegacyIndexAlignedPayload(t *testing.T) {
	payload := `{
		"subscriptionIds": ["s1", "s2"],
		"feedUrl": "https://example.com/rss",
		"mostRecentItemDates": [0, 1714557600000],
		"scheduledTimestamps": [1714557600000, null],
		"lastFetchedChecksums": [null, "deadbeef"],
		"userIds": ["u1", "u2"],
		"fetchContents": [true, false],
		"folders": ["inbox", "following"]
	}`

	job, err := DecodeJob("legacy", string(JobNameRefreshFeed), []byte(payload))
	require.NoError(t, err)

	subs := job.RefreshFeed.Subscribers
	require.Len(t, subs, 2)

	assert.Equal(t, "s1", subs[0].SubscriptionID)
	assert.Equal(t, "u1", subs[0].UserID)
	assert.Nil(t, subs[0].MostRecentItemDate)
	require.NotNil(t, subs[0].ScheduledAt)
	assert.Equal(t, int64(1714557600000), subs[0].ScheduledAt.UnixMilli())
	assert.Equal(t, FetchContentAlways, subs[0].FetchContentType)
	assert.Equal(t, FolderInbox, subs[0].Folder)

	require.NotNil(t, subs[1].MostRecentItemDate)
	assert.Nil(t, subs[1].ScheduledAt)
	assert.Equal(t, "deadbeef", subs[1].LastFetchedChecksum)
	assert.Equal(t, FetchContentNever, subs[1].FetchContentType)
}

func TestDecodeJob_Rejects(t *testing.T) {
	validGroup, err := json.Marshal(RefreshFeedPayload{FeedURL: "https://example.com/rss", Subscribers: testGroup().Subscribers})
	require.NoError(t, err)

	tests := map[string]struct {
		name    string
		payload string
		wantErr error
	}{
		"unknown job name": {
			name:    "refresh-everything",
			payload: string(validGroup),
			wantErr: ErrUnknownJob,
		},
		"malformed json": {
			name:    string(JobNameRefreshFeed),
			payload: `{"feedUrl":`,
			wantErr: ErrInvalidJob,
		},
		"missing feed url": {
			name:    string(JobNameRefreshFeed),
			payload: `{"subscribers":[{"subscriptionId":"s1","userId":"u1"}]}`,
			wantErr: ErrInvalidJob,
		},
		"relative feed url": {
			name:    string(JobNameRefreshFeed),
			payload: `{"feedUrl":"/rss","subscribers":[{"subscriptionId":"s1","userId":"u1"}]}`,
			wantErr: ErrInvalidJob,
		},
		"no subscribers": {
			name:    string(JobNameRefreshFeed),
			payload: `{"feedUrl":"https://example.com/rss","subscribers":[]}`,
			wantErr: ErrInvalidJob,
		},
		"duplicate subscription": {
			name:    string(JobNameRefreshFeed),
			payload: `{"feedUrl":"https://example.com/rss","subscribers":[{"subscriptionId":"s1","userId":"u1"},{"subscriptionId":"s1","userId":"u2"}]}`,
			wantErr: ErrInvalidJob,
		},
		"unknown strategy": {
			name:    string(JobNameRefreshFeed),
			payload: `{"feedUrl":"https://example.com/rss","subscribers":[{"subscriptionId":"s1","userId":"u1","fetchContentType":"SOMETIMES"}]}`,
			wantErr: ErrInvalidJob,
		},
		"misaligned legacy arrays": {
			name: string(JobNameRefreshFeed),
			payload: `{"subscriptionIds":["s1","s2"],"feedUrl":"https://example.com/rss","mostRecentItemDates":[0],
				"scheduledTimestamps":[0,0],"lastFetchedChecksums":["",""],"userIds":["u1","u2"]}`,
			wantErr: ErrInvalidJob,
		},
		"refresh all without context": {
			name:    string(JobNameRefreshAllFeeds),
			payload: `{}`,
			wantErr: ErrInvalidJob,
		},
		"user added refresh without user": {
			name:    string(JobNameRefreshAllFeeds),
			payload: `{"refreshContext":{"type":"user-added","refreshID":"r1"}}`,
			wantErr: ErrInvalidJob,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			job, err := DecodeJob("job-1", tt.name, []byte(tt.payload))
			assert.Nil(t, job)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRefreshAllFeedsJob(t *testing.T) {
	now := time.Now()

	all := NewRefreshAllFeedsJob(NewRefreshContext(RefreshKindAll, "", now))
	require.NoError(t, all.Validate())
	assert.Equal(t, "refresh-all-feeds:all", all.ID)

	user := NewRefreshAllFeedsJob(NewRefreshContext(RefreshKindUserAdded, "user-9", now))
	require.NoError(t, user.Validate())
	assert.Equal(t, "refresh-all-feeds:user:user-9", user.ID)
}

func TestJobValidate_MismatchedVariant(t *testing.T) {
	job := NewRefreshFeedJob(testGroup(), nil)
	job.RefreshAllFeeds = &RefreshAllFeedsPayload{RefreshContext: NewRefreshContext(RefreshKindAll, "", time.Now())}

	assert.ErrorIs(t, job.Validate(), ErrInvalidJob)
}

func TestIsTerminalJobError(t *testing.T) {
	assert.True(t, IsTerminalJobError(nil))
	assert.True(t, IsTerminalJobError(ErrFeedBlocked))
	assert.True(t, IsTerminalJobError(ErrInvalidJob))
	assert.False(t, IsTerminalJobError(assert.AnError))
}
