package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/3weTN/latest-news/internal/domain/entity"
)

// noopResolver satisfies ImageResolver for tests that must never hit the
// network for fallback images.
type noopResolver struct{}

func (noopResolver) Resolve(context.Context, string) string { return "" }

type stubImageResolver struct {
	image string
	calls int
}

func (s *stubImageResolver) Resolve(_ context.Context, _ string) string {
	s.calls++
	return s.image
}

func rssSource(endpoint string) entity.NewsSource {
	return entity.NewsSource{
		ID:       "src",
		Name:     "Source FM",
		Type:     entity.SourceTypeRSS,
		Endpoint: endpoint,
	}
}

func serveFeed(t *testing.T, xml string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(xml))
	}))
}

func TestRSSAdapter_FetchNormalizesItem(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>Élection 2024</title>
      <link>https://x.tn/a</link>
      <guid>https://x.tn/a</guid>
      <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
      <description><![CDATA[<p>Résumé</p>]]></description>
      <category>Politique</category>
      <enclosure url="https://x.tn/a.jpg" type="image/jpeg" length="1000"/>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	images := &stubImageResolver{}
	adapter := NewRSSAdapter(server.Client(), images)

	articles, err := adapter.Fetch(context.Background(), rssSource(server.URL), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	art := articles[0]
	if art.Slug != "src-election-2024" {
		t.Errorf("Slug = %q, want src-election-2024", art.Slug)
	}
	if art.Intro != "Résumé" {
		t.Errorf("Intro = %q, want Résumé", art.Intro)
	}
	if art.Date != "2024-01-01T10:00:00.000Z" {
		t.Errorf("Date = %v, want 2024-01-01T10:00:00.000Z", art.Date)
	}
	if art.StartPublish != "2024-01-01T10:00:00.000Z" {
		t.Errorf("StartPublish = %v, want 2024-01-01T10:00:00.000Z", art.StartPublish)
	}
	if art.Label != "Politique" || art.TSlug != "politique" {
		t.Errorf("Label/TSlug = %q/%q, want Politique/politique", art.Label, art.TSlug)
	}
	if art.Image != "https://x.tn/a.jpg" {
		t.Errorf("Image = %q, want enclosure URL", art.Image)
	}
	if art.Source != "src" {
		t.Errorf("Source = %q, want src", art.Source)
	}
	if images.calls != 0 {
		t.Errorf("image resolver calls = %d, want 0 (enclosure present)", images.calls)
	}
}

func TestRSSAdapter_FetchDropsItemsWithoutLinkOrTitle(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>Kept</title>
      <link>https://x.tn/kept</link>
    </item>
    <item>
      <title>No link at all</title>
    </item>
    <item>
      <link>https://x.tn/untitled</link>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	adapter := NewRSSAdapter(server.Client(), noopResolver{})

	articles, err := adapter.Fetch(context.Background(), rssSource(server.URL), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if articles[0].Title != "Kept" {
		t.Errorf("Title = %q, want Kept", articles[0].Title)
	}
}

func TestRSSAdapter_CategoryAndSlugFallbacks(t *testing.T) {
	// Arabic-only title slugifies to empty, so the slug falls back to the
	// hash id; missing category falls back to the source name.
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>أخبار اليوم</title>
      <link>https://x.tn/ar</link>
      <guid>guid-ar-1</guid>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	adapter := NewRSSAdapter(server.Client(), noopResolver{})

	articles, err := adapter.Fetch(context.Background(), rssSource(server.URL), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	art := articles[0]
	if art.Label != "Source FM" {
		t.Errorf("Label = %q, want source name fallback", art.Label)
	}
	if art.TSlug != "source-fm" {
		t.Errorf("TSlug = %q, want source-fm", art.TSlug)
	}
	if art.ID <= 0 {
		t.Fatalf("ID = %d, want positive hash", art.ID)
	}
	wantSlug := "src-" + strconv.Itoa(art.ID)
	if art.Slug != wantSlug {
		t.Errorf("Slug = %q, want id fallback %q", art.Slug, wantSlug)
	}
}

func TestRSSAdapter_ImageFallbackChain(t *testing.T) {
	// No enclosure or media extension: the inline <img> wins; when that is
	// missing too, the page resolver is consulted.
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>With inline image</title>
      <link>https://x.tn/inline</link>
      <description><![CDATA[<p>text</p><img src="https://x.tn/inline.jpg" alt=""/>]]></description>
    </item>
    <item>
      <title>Without any image</title>
      <link>https://x.tn/none</link>
      <description>plain text only</description>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	images := &stubImageResolver{image: "https://x.tn/og.jpg"}
	adapter := NewRSSAdapter(server.Client(), images)

	articles, err := adapter.Fetch(context.Background(), rssSource(server.URL), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}
	if articles[0].Image != "https://x.tn/inline.jpg" {
		t.Errorf("inline image = %q, want https://x.tn/inline.jpg", articles[0].Image)
	}
	if articles[1].Image != "https://x.tn/og.jpg" {
		t.Errorf("fallback image = %q, want resolver result", articles[1].Image)
	}
	if images.calls != 1 {
		t.Errorf("image resolver calls = %d, want 1", images.calls)
	}
}

func TestRSSAdapter_MediaContentBeatsEnclosure(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Source FM</title>
    <item>
      <title>Both image forms</title>
      <link>https://x.tn/both</link>
      <media:content url="https://x.tn/media.jpg" type="image/jpeg"/>
      <enclosure url="https://x.tn/enclosure.jpg" type="image/jpeg" length="1000"/>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	adapter := NewRSSAdapter(server.Client(), noopResolver{})

	articles, err := adapter.Fetch(context.Background(), rssSource(server.URL), 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}
	if articles[0].Image != "https://x.tn/media.jpg" {
		t.Errorf("Image = %q, want media:content URL over enclosure", articles[0].Image)
	}
}

func TestRSSAdapter_ConcurrentFetches(t *testing.T) {
	// The aggregator fans out over sources, so one adapter sees parallel
	// Fetch calls. Run with -race.
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>Parallel story</title>
      <link>https://x.tn/parallel</link>
      <guid>guid-parallel</guid>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	adapter := NewRSSAdapter(server.Client(), noopResolver{})
	src := rssSource(server.URL)

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	counts := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			articles, err := adapter.Fetch(context.Background(), src, 1)
			if err != nil {
				errs <- err
				return
			}
			counts <- len(articles)
		}()
	}
	wg.Wait()
	close(errs)
	close(counts)

	for err := range errs {
		t.Errorf("Fetch() error = %v", err)
	}
	for n := range counts {
		if n != 1 {
			t.Errorf("len(articles) = %d, want 1", n)
		}
	}
}

func TestRSSAdapter_StableIdentityAcrossFetches(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Source FM</title>
    <item>
      <title>Same story</title>
      <link>https://x.tn/same</link>
      <guid>guid-same</guid>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, feed)
	defer server.Close()

	adapter := NewRSSAdapter(server.Client(), noopResolver{})
	src := rssSource(server.URL)

	first, err := adapter.Fetch(context.Background(), src, 1)
	if err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	second, err := adapter.Fetch(context.Background(), src, 1)
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}

	if first[0].ID != second[0].ID || first[0].Slug != second[0].Slug {
		t.Errorf("identity not stable: (%d,%q) vs (%d,%q)",
			first[0].ID, first[0].Slug, second[0].ID, second[0].Slug)
	}
}
