package parser

import (
	"context"
	"testing"
	"time"

	"feed-refresher/domain"
	"feed-refresher/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const telegramFixture = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Durov's Channel">
  <title>Telegram: Contact @durov</title>
</head>
<body>
  <div class="tgme_widget_message" data-post="durov/101">
    <div class="tgme_widget_message_text">Hello</div>
    <a class="tgme_widget_message_date" href="https://t.me/durov/101"><time datetime="2024-06-01T08:00:00+00:00">08:00</time></a>
  </div>
  <div class="tgme_widget_message" data-post="durov/102">
    <div class="tgme_widget_message_text">World</div>
  </div>
  <div class="tgme_widget_message" data-post="">ignored</div>
</body>
</html>`

func TestTelegramChannel(t *testing.T) {
	tests := map[string]struct {
		url     string
		channel string
		preview bool
		ok      bool
	}{
		"channel":         {url: "https://t.me/durov", channel: "durov", ok: true},
		"preview":         {url: "https://t.me/s/durov", channel: "durov", preview: true, ok: true},
		"message link":    {url: "https://t.me/durov/101", channel: "durov", ok: true},
		"not telegram":    {url: "https://example.com/t.me/durov"},
		"plain http":      {url: "http://t.me/durov"},
		"missing channel": {url: "https://t.me/"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			channel, preview, ok := TelegramChannel(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.channel, channel)
			assert.Equal(t, tt.preview, preview)
		})
	}
}

func TestTelegramParser_PreviewURLUsesFetchedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeedFetcherPort(ctrl)

	result := &domain.FetchResult{
		URL:         "https://t.me/s/durov",
		Content:     []byte(telegramFixture),
		ContentType: "text/html; charset=utf-8",
		Checksum:    "page-sum",
	}

	feed, err := NewTelegramParser(fetcher).Parse(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, "Durov's Channel", feed.Title)
	assert.Equal(t, domain.FeedTypeTelegram, feed.Type)
	assert.Empty(t, feed.SourceChecksum)
	require.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "https://t.me/durov/101", first.GUID)
	assert.Equal(t, []domain.ItemLink{{Href: "https://t.me/durov/101", Plain: true}}, first.Links)
	require.NotNil(t, first.PublishedAt)
	assert.True(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC).Equal(*first.PublishedAt))
	assert.Contains(t, first.Content, `data-post="durov/101"`)
	assert.Contains(t, first.Content, "Hello")

	assert.Equal(t, "https://t.me/durov/102", feed.Items[1].GUID)
	assert.Nil(t, feed.Items[1].PublishedAt)
}

func TestTelegramParser_ChannelURLFetchesPreview(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeedFetcherPort(ctrl)

	fetcher.EXPECT().
		FetchFeed(gomock.Any(), "https://t.me/s/durov").
		Return(&domain.FetchResult{
			URL:         "https://t.me/s/durov",
			Content:     []byte(telegramFixture),
			ContentType: "text/html",
			Checksum:    "preview-sum",
		}, nil)

	result := &domain.FetchResult{
		URL:      "https://t.me/durov",
		Content:  []byte("<html><head><title>Telegram: Contact @durov</title></head></html>"),
		Checksum: "info-sum",
	}

	feed, err := NewTelegramParser(fetcher).Parse(context.Background(), result)
	require.NoError(t, err)
	assert.Len(t, feed.Items, 2)
	assert.Equal(t, "preview-sum", feed.SourceChecksum)
	assert.Equal(t, "preview-sum", feed.ChecksumOr(result.Checksum))
}

func TestTelegramParser_PreviewFetchFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFeedFetcherPort(ctrl)

	fetcher.EXPECT().FetchFeed(gomock.Any(), "https://t.me/s/durov").Return(nil, assert.AnError)

	_, err := NewTelegramParser(fetcher).Parse(context.Background(), &domain.FetchResult{URL: "https://t.me/durov"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTelegramParser_TitleFallback(t *testing.T) {
	result := &domain.FetchResult{
		URL:     "https://t.me/s/quiet",
		Content: []byte(`<html><head><title>Quiet Channel</title></head><body></body></html>`),
	}

	feed, err := NewTelegramParser(nil).Parse(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, "Quiet Channel", feed.Title)
	assert.Empty(t, feed.Items)
}
