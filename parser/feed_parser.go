// Package parser turns fetched documents into domain feeds.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"feed-refresher/domain"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
	jsonfeed "github.com/mmcdole/gofeed/json"
	"github.com/mmcdole/gofeed/rss"
)

// FeedParser parses RSS, RDF, Atom and JSON Feed documents with gofeed. The
// raw format parsers run first so link rel attributes survive translation.
type FeedParser struct{}

func NewFeedParser() *FeedParser {
	return &FeedParser{}
}

// Parse converts content into a ParsedFeed.
func (p *FeedParser) Parse(content []byte) (*domain.ParsedFeed, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(content)) {
	case gofeed.FeedTypeRSS:
		return p.parseRSS(content)
	case gofeed.FeedTypeAtom:
		return p.parseAtom(content)
	case gofeed.FeedTypeJSON:
		return p.parseJSON(content)
	default:
		return nil, errUnknownFormat
	}
}

func (p *FeedParser) parseRSS(content []byte) (*domain.ParsedFeed, error) {
	raw, err := (&rss.Parser{}).Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	feed, err := (&gofeed.DefaultRSSTranslator{}).Translate(raw)
	if err != nil {
		return nil, fmt.Errorf("translate rss: %w", err)
	}

	parsed := newParsedFeed(feed, domain.FeedTypeRSS)
	parsed.LastBuildDate = raw.LastBuildDateParsed

	for i, item := range feed.Items {
		var links []domain.ItemLink
		if i < len(raw.Items) {
			links = atomLinkExtensions(raw.Items[i].Extensions)
		}
		if item.Link != "" {
			links = append(links, domain.ItemLink{Href: item.Link, Plain: true})
		}
		parsed.Items = append(parsed.Items, convertItem(item, links))
	}

	return parsed, nil
}

func (p *FeedParser) parseAtom(content []byte) (*domain.ParsedFeed, error) {
	raw, err := (&atom.Parser{}).Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse atom: %w", err)
	}

	feed, err := (&gofeed.DefaultAtomTranslator{}).Translate(raw)
	if err != nil {
		return nil, fmt.Errorf("translate atom: %w", err)
	}

	parsed := newParsedFeed(feed, domain.FeedTypeAtom)

	for i, item := range feed.Items {
		var links []domain.ItemLink
		if i < len(raw.Entries) {
			for _, l := range raw.Entries[i].Links {
				if l == nil || strings.TrimSpace(l.Href) == "" {
					continue
				}
				links = append(links, domain.ItemLink{Href: l.Href, Rel: strings.ToLower(l.Rel)})
			}
		}
		if len(links) == 0 && item.Link != "" {
			links = append(links, domain.ItemLink{Href: item.Link, Plain: true})
		}
		parsed.Items = append(parsed.Items, convertItem(item, links))
	}

	return parsed, nil
}

func (p *FeedParser) parseJSON(content []byte) (*domain.ParsedFeed, error) {
	raw, err := (&jsonfeed.Parser{}).Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse json feed: %w", err)
	}

	feed, err := (&gofeed.DefaultJSONTranslator{}).Translate(raw)
	if err != nil {
		return nil, fmt.Errorf("translate json feed: %w", err)
	}

	parsed := newParsedFeed(feed, domain.FeedTypeJSON)

	for i, item := range feed.Items {
		var links []domain.ItemLink
		if i < len(raw.Items) && raw.Items[i] != nil && raw.Items[i].ExternalURL != "" {
			links = append(links, domain.ItemLink{Href: raw.Items[i].ExternalURL, Rel: domain.LinkRelVia})
		}
		if item.Link != "" {
			links = append(links, domain.ItemLink{Href: item.Link, Plain: true})
		}
		parsed.Items = append(parsed.Items, convertItem(item, links))
	}

	return parsed, nil
}

func newParsedFeed(feed *gofeed.Feed, feedType domain.FeedType) *domain.ParsedFeed {
	return &domain.ParsedFeed{
		Title:           strings.TrimSpace(feed.Title),
		Type:            feedType,
		UpdatePeriod:    syndicationValue(feed.Extensions, "updatePeriod"),
		UpdateFrequency: syndicationValue(feed.Extensions, "updateFrequency"),
		Items:           make([]domain.FeedItem, 0, len(feed.Items)),
	}
}

func convertItem(item *gofeed.Item, links []domain.ItemLink) domain.FeedItem {
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		guid = strings.TrimSpace(item.Link)
	}

	return domain.FeedItem{
		GUID:        guid,
		Title:       strings.TrimSpace(item.Title),
		Links:       links,
		PublishedAt: publishedAt(item),
		Author:      author(item),
		Content:     item.Content,
		Summary:     item.Description,
		Thumbnail:   thumbnail(item),
	}
}

// atomLinkExtensions returns the atom:link elements of an RSS item.
func atomLinkExtensions(extensions ext.Extensions) []domain.ItemLink {
	var links []domain.ItemLink
	for _, l := range extensions["atom"]["link"] {
		href := strings.TrimSpace(l.Attrs["href"])
		if href == "" {
			continue
		}
		links = append(links, domain.ItemLink{Href: href, Rel: strings.ToLower(l.Attrs["rel"])})
	}
	return links
}

// syndicationValue reads a syndication module element, which feeds declare
// under either the sy or syn prefix.
func syndicationValue(extensions ext.Extensions, name string) string {
	for _, prefix := range []string{"sy", "syn"} {
		for _, e := range extensions[prefix][name] {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}
	if item.DublinCoreExt != nil {
		for _, d := range item.DublinCoreExt.Date {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(d)); err == nil {
				return &t
			}
		}
	}
	return nil
}

func author(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		return item.Authors[0].Name
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			if c = strings.TrimSpace(c); c != "" {
				return c
			}
		}
	}
	return ""
}

// thumbnail picks media:thumbnail, then an image media:content, then the item
// image, then an image enclosure.
func thumbnail(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; isHTTPURL(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] == "image" && isHTTPURL(content.Attrs["url"]) {
				return content.Attrs["url"]
			}
		}
	}

	if item.Image != nil && isHTTPURL(item.Image.URL) {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && isHTTPURL(enc.URL) {
			return enc.URL
		}
	}

	return ""
}

func isHTTPURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

var errUnknownFormat = errors.New("unrecognized feed format")
