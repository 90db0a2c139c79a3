package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"feed-refresher/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subscriptionColumns = []string{
	"id", "user_id", "url", "type", "status", "last_fetched_checksum",
	"most_recent_item_date", "scheduled_at", "fetch_content_type", "folder",
	"refreshed_at", "failed_at",
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestSubscriptionDriver_FetchDueSubscriptions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour)

	rows := pgxmock.NewRows(subscriptionColumns).
		AddRow("s1", "u1", "https://a.example.com/rss", "RSS", "ACTIVE", strPtr("abc"),
			timePtr(recent), (*time.Time)(nil), strPtr("WHEN_EMPTY"), strPtr("inbox"),
			(*time.Time)(nil), (*time.Time)(nil)).
		AddRow("s2", "u2", "https://a.example.com/rss", "RSS", "ACTIVE", (*string)(nil),
			(*time.Time)(nil), timePtr(now), (*string)(nil), (*string)(nil),
			(*time.Time)(nil), (*time.Time)(nil))

	mock.ExpectQuery(`FROM subscriptions\s+WHERE type = 'RSS'\s+AND status = 'ACTIVE'.*ORDER BY url, id`).
		WithArgs(now).
		WillReturnRows(rows)

	driver := NewSubscriptionDriver(mock)
	subs, err := driver.FetchDueSubscriptions(context.Background(), domain.DueSubscriptionFilter{Now: now})
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "abc", subs[0].LastFetchedChecksum)
	assert.Equal(t, domain.FetchContentWhenEmpty, subs[0].FetchContentType)
	assert.Equal(t, domain.FolderInbox, subs[0].Folder)
	require.NotNil(t, subs[0].MostRecentItemDate)
	assert.True(t, recent.Equal(*subs[0].MostRecentItemDate))

	assert.Equal(t, "", subs[1].LastFetchedChecksum)
	assert.Equal(t, domain.FetchContentAlways, subs[1].FetchContentType)
	assert.Equal(t, domain.FolderFollowing, subs[1].Folder)
	assert.Nil(t, subs[1].MostRecentItemDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionDriver_FetchDueSubscriptions_UserFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`AND user_id = \$2\s+ORDER BY url, id`).
		WithArgs(now, "user-9").
		WillReturnRows(pgxmock.NewRows(subscriptionColumns))

	subs, err := NewSubscriptionDriver(mock).FetchDueSubscriptions(context.Background(), domain.DueSubscriptionFilter{Now: now, UserID: "user-9"})
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionDriver_FetchDueSubscriptions_RetriesConnBusy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM subscriptions`).WithArgs(now).WillReturnError(errors.New("conn busy"))
	mock.ExpectQuery(`FROM subscriptions`).WithArgs(now).WillReturnRows(pgxmock.NewRows(subscriptionColumns))

	_, err = NewSubscriptionDriver(mock).FetchDueSubscriptions(context.Background(), domain.DueSubscriptionFilter{Now: now})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionDriver_UpdateRefreshState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)
	update := domain.RefreshStateUpdate{
		SubscriptionID:      "s1",
		UserID:              "u1",
		MostRecentItemDate:  &recent,
		LastFetchedChecksum: "abc",
		ScheduledAt:         now.Add(24 * time.Hour),
		RefreshedAt:         now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subscriptions\s+SET most_recent_item_date = GREATEST\(most_recent_item_date, \$2\)`).
		WithArgs("s1", &recent, pgxmock.AnyArg(), update.ScheduledAt, now, (*time.Time)(nil), "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, NewSubscriptionDriver(mock).UpdateRefreshState(context.Background(), update))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionDriver_UpdateRefreshState_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE subscriptions`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err = NewSubscriptionDriver(mock).UpdateRefreshState(context.Background(), domain.RefreshStateUpdate{SubscriptionID: "missing"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionDriver_MarkSubscriptionsFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Now()
	mock.ExpectExec(`WHERE id = ANY\(\$1\)`).
		WithArgs([]string{"s1", "s2"}, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	driver := NewSubscriptionDriver(mock)
	require.NoError(t, driver.MarkSubscriptionsFailed(context.Background(), []string{"s1", "s2"}, at))
	require.NoError(t, driver.MarkSubscriptionsFailed(context.Background(), nil, at), "no ids is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}
