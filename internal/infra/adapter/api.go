package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/observability/metrics"
	"github.com/3weTN/latest-news/internal/resilience/retry"
)

// APIAdapter fetches articles from JSON article APIs. The endpoint is a
// template with {page}, {perPage}, and any extra per-source parameters; the
// response is expected to carry an "items" array of article objects.
type APIAdapter struct {
	client   *http.Client
	breakers *breakerRegistry
	retryCfg retry.Config
}

// NewAPIAdapter creates an APIAdapter using the given HTTP client.
func NewAPIAdapter(client *http.Client) *APIAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIAdapter{
		client:   client,
		breakers: newBreakerRegistry(),
		retryCfg: retry.SourceFetchConfig(),
	}
}

// Fetch retrieves and normalizes one page of articles from an API source.
func (a *APIAdapter) Fetch(ctx context.Context, src entity.NewsSource, page int) ([]entity.Article, error) {
	values := map[string]string{
		"page":    strconv.Itoa(page),
		"perPage": strconv.Itoa(src.EffectivePerPage()),
	}
	for k, v := range src.Params {
		values[k] = v
	}
	apiURL := FillEndpointTemplate(src.Endpoint, values)

	payload, err := a.fetchJSON(ctx, src.ID, apiURL)
	if err != nil {
		return nil, err
	}

	rawItems, _ := payload["items"].([]any)
	articles := make([]entity.Article, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		art := mapAPIItem(item, src)
		if !art.Valid() {
			metrics.RecordArticleDropped(src.ID, "missing_required_fields")
			continue
		}
		articles = append(articles, art)
	}
	return articles, nil
}

// fetchJSON performs the guarded GET and decodes the body as a JSON object.
func (a *APIAdapter) fetchJSON(ctx context.Context, sourceID, apiURL string) (map[string]any, error) {
	cb := a.breakers.get(sourceID)

	result, err := cb.Execute(func() (interface{}, error) {
		var payload map[string]any
		err := retry.WithBackoff(ctx, a.retryCfg, func() error {
			var fetchErr error
			payload, fetchErr = getJSON(ctx, a.client, apiURL)
			return fetchErr
		})
		return payload, err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", apiURL, err)
	}
	return result.(map[string]any), nil
}

// getJSON GETs a URL and decodes the response body as a JSON object.
func getJSON(ctx context.Context, client *http.Client, rawURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// mapAPIItem converts a decoded API article object into an Article. The
// upstream shape already mirrors the Article contract, so mapping is mostly
// field extraction plus source stamping, image normalization, and link2
// defaulting.
func mapAPIItem(item map[string]any, src entity.NewsSource) entity.Article {
	link := strField(item, "link")
	link2 := strField(item, "link2")
	if link2 == "" {
		link2 = link
	}

	return entity.Article{
		TID:          asInt(item["tid"]),
		Label:        strField(item, "label"),
		TSlug:        strField(item, "tslug"),
		ID:           asInt(item["id"]),
		Title:        strField(item, "title"),
		Slug:         strField(item, "slug"),
		Intro:        strField(item, "intro"),
		Summary:      strField(item, "summary"),
		SEOAlt:       strField(item, "seoAlt"),
		Image:        NormalizeImageURL(strField(item, "image"), src.Params["imageBase"]),
		StartPublish: item["startPublish"],
		Date:         item["date"],
		Created:      item["created"],
		Updated:      item["updated"],
		Category:     strField(item, "category"),
		Link:         link,
		Link2:        link2,
		FirstItem:    asBool(item["firstItem"]),
		Source:       src.ID,
	}
}

func asBool(value any) bool {
	b, _ := value.(bool)
	return b
}

// NormalizeImageURL makes an upstream image reference an absolute HTTPS URL:
// protocol-relative URLs get https:, site-relative paths get the source's
// image base prefix, and plain HTTP is upgraded.
func NormalizeImageURL(raw, base string) string {
	u := strings.TrimSpace(raw)
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return base + u
	case strings.HasPrefix(u, "http://"):
		return "https://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}
