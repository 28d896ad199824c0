package adapter

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/mmcdole/gofeed"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/observability/metrics"
	"github.com/3weTN/latest-news/internal/resilience/retry"
	"github.com/3weTN/latest-news/internal/utils/text"
)

// introLimit is the maximum rune length of the plain-text excerpt.
const introLimit = 280

// publishISOLayout renders resolved publish instants the way upstream API
// sources do, so RSS-born and API-born articles serialize identically.
const publishISOLayout = "2006-01-02T15:04:05.000Z"

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)

// RSSAdapter fetches articles from RSS/Atom feeds and normalizes items into
// the Article contract. Feeds are single-page: the aggregator's policy layer
// keeps them off deep pages via firstPageOnly, so Fetch ignores page.
type RSSAdapter struct {
	client   *http.Client
	images   ImageResolver
	breakers *breakerRegistry
	retryCfg retry.Config
}

// NewRSSAdapter creates an RSSAdapter. The image resolver supplies fallback
// images for items that carry none; pass a no-op resolver to disable the
// network fallback.
func NewRSSAdapter(client *http.Client, images ImageResolver) *RSSAdapter {
	return &RSSAdapter{
		client:   client,
		images:   images,
		breakers: newBreakerRegistry(),
		retryCfg: retry.SourceFetchConfig(),
	}
}

// Fetch retrieves the feed and maps its items. Items missing a usable link
// or title are dropped.
func (a *RSSAdapter) Fetch(ctx context.Context, src entity.NewsSource, _ int) ([]entity.Article, error) {
	feed, err := a.fetchFeed(ctx, src)
	if err != nil {
		return nil, err
	}

	articles := make([]entity.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		art, ok := a.mapItem(ctx, item, src)
		if !ok {
			metrics.RecordArticleDropped(src.ID, "missing_required_fields")
			continue
		}
		articles = append(articles, art)
	}
	return articles, nil
}

func (a *RSSAdapter) fetchFeed(ctx context.Context, src entity.NewsSource) (*gofeed.Feed, error) {
	cb := a.breakers.get(src.ID)

	// gofeed.Parser initializes translator state lazily inside Parse, so a
	// shared instance is not safe across the aggregator's concurrent
	// fetches. One parser per fetch.
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	if a.client != nil {
		parser.Client = a.client
	}

	result, err := cb.Execute(func() (interface{}, error) {
		var feed *gofeed.Feed
		err := retry.WithBackoff(ctx, a.retryCfg, func() error {
			var parseErr error
			feed, parseErr = parser.ParseURLWithContext(src.Endpoint, ctx)
			return parseErr
		})
		return feed, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", src.Endpoint, err)
	}
	return result.(*gofeed.Feed), nil
}

// mapItem normalizes one feed item. It returns false when the item lacks a
// link or title, the two fields nothing downstream can work without.
func (a *RSSAdapter) mapItem(ctx context.Context, item *gofeed.Item, src entity.NewsSource) (entity.Article, bool) {
	link := text.TextContent(item.Link)
	if link == "" {
		link = text.TextContent(item.GUID)
	}
	title := text.TextContent(item.Title)
	if link == "" || title == "" {
		return entity.Article{}, false
	}

	rawDescription := item.Description
	if rawDescription == "" {
		rawDescription = item.Content
	}
	intro := text.Truncate(text.StripHTML(rawDescription), introLimit)

	category := ""
	if len(item.Categories) > 0 {
		category = text.TextContent(item.Categories[0])
	}
	if category == "" {
		category = src.Name
	}
	labelSlug := text.Slugify(category)
	if labelSlug == "" {
		labelSlug = src.ID
	}

	guid := item.GUID
	if guid == "" {
		guid = link
	}
	id := text.HashString(guid)

	slug := src.ID + "-" + strconv.Itoa(id)
	if titleSlug := text.Slugify(title); titleSlug != "" {
		slug = src.ID + "-" + titleSlug
	}

	// The resolved instant fills all four date slots; an unparseable
	// pubDate is carried raw so timestamp resolution can still try it.
	var publishISO any
	startPublish := any(nil)
	if item.PublishedParsed != nil {
		iso := item.PublishedParsed.UTC().Format(publishISOLayout)
		publishISO = iso
		startPublish = iso
	} else if item.Published != "" {
		startPublish = item.Published
	}

	return entity.Article{
		TID:          text.HashString(src.ID + "-" + category),
		Label:        category,
		TSlug:        labelSlug,
		ID:           id,
		Title:        title,
		Slug:         slug,
		Intro:        intro,
		Summary:      rawDescription,
		SEOAlt:       title,
		Image:        a.resolveImage(ctx, item, link),
		StartPublish: startPublish,
		Date:         publishISO,
		Created:      publishISO,
		Updated:      publishISO,
		Category:     category,
		Link:         link,
		Link2:        link,
		FirstItem:    false,
		Source:       src.ID,
	}, true
}

// resolveImage finds an image for the item: media:content extension, media
// enclosure, inline <img> in the item HTML, then the best-effort page
// resolver as a last resort.
func (a *RSSAdapter) resolveImage(ctx context.Context, item *gofeed.Item, link string) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
		for _, ext := range media["thumbnail"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}

	html := item.Content
	if html == "" {
		html = item.Description
	}
	if match := imgSrcPattern.FindStringSubmatch(html); match != nil {
		return match[1]
	}

	if a.images != nil {
		return a.images.Resolve(ctx, link)
	}
	return ""
}
