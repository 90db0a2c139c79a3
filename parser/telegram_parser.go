package parser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"feed-refresher/domain"
	"feed-refresher/port"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

var telegramChannelRegex = regexp.MustCompile(`^https://t\.me/(s/)?([A-Za-z0-9_]+)`)

// TelegramChannel returns the channel name of a t.me URL and whether the URL
// already points at the public preview page under /s/.
func TelegramChannel(rawURL string) (channel string, preview bool, ok bool) {
	m := telegramChannelRegex.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false, false
	}
	return m[2], m[1] != "", true
}

// TelegramParser builds a feed from the public preview page of a Telegram
// channel, one item per message.
type TelegramParser struct {
	fetcher port.FeedFetcherPort
}

func NewTelegramParser(fetcher port.FeedFetcherPort) *TelegramParser {
	return &TelegramParser{fetcher: fetcher}
}

// Parse reads the preview page of the channel in result.URL. Channel URLs
// without /s/ serve an info page, so the preview page is fetched first.
func (p *TelegramParser) Parse(ctx context.Context, result *domain.FetchResult) (*domain.ParsedFeed, error) {
	channel, preview, ok := TelegramChannel(result.URL)
	if !ok {
		return nil, fmt.Errorf("not a telegram channel url: %s", result.URL)
	}

	page := result
	if !preview {
		fetched, err := p.fetcher.FetchFeed(ctx, "https://t.me/s/"+channel)
		if err != nil {
			return nil, fmt.Errorf("fetch telegram preview: %w", err)
		}
		page = fetched
	}

	reader, err := charset.NewReader(bytes.NewReader(page.Content), page.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode telegram page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse telegram page: %w", err)
	}

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if strings.TrimSpace(title) == "" {
		title = doc.Find("title").First().Text()
	}

	feed := &domain.ParsedFeed{
		Title: strings.TrimSpace(title),
		Type:  domain.FeedTypeTelegram,
	}
	if page != result {
		feed.SourceChecksum = page.Checksum
	}

	doc.Find("[data-post]").Each(func(_ int, post *goquery.Selection) {
		postID := strings.TrimSpace(post.AttrOr("data-post", ""))
		if postID == "" {
			return
		}
		// data-post is "<channel>/<message id>"
		messageID := postID[strings.LastIndex(postID, "/")+1:]
		if messageID == "" {
			return
		}

		link := "https://t.me/" + channel + "/" + messageID
		item := domain.FeedItem{
			GUID:  link,
			Links: []domain.ItemLink{{Href: link, Plain: true}},
		}

		if datetime, ok := post.Find("time[datetime]").First().Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, datetime); err == nil {
				item.PublishedAt = &t
			}
		}

		if html, err := goquery.OuterHtml(post); err == nil {
			item.Content = html
		}

		feed.Items = append(feed.Items, item)
	})

	return feed, nil
}
