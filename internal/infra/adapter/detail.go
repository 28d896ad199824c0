package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/resilience/circuitbreaker"
	"github.com/3weTN/latest-news/internal/resilience/retry"
)

// DetailClient fetches a single article from an API source's per-item
// detail endpoint. The detail URL reuses the source's endpoint template
// with a fixed single-item pagination shape plus the article id as a path
// suffix.
type DetailClient struct {
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
}

// NewDetailClient creates a DetailClient using the given HTTP client.
func NewDetailClient(client *http.Client) *DetailClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &DetailClient{
		client:   client,
		breaker:  circuitbreaker.New(circuitbreaker.DetailConfig()),
		retryCfg: retry.DetailFetchConfig(),
	}
}

// FetchDetail retrieves one article by id in the given language variant.
// The attempted URL is returned even on failure so the caller can surface
// it in diagnostics. The response envelope varies by upstream version: the
// article may sit under "item", "article", "data", or be the bare object.
func (c *DetailClient) FetchDetail(ctx context.Context, src entity.NewsSource, lang, id string) (*entity.Article, string, error) {
	values := map[string]string{
		"lang":    lang,
		"perPage": "5",
		"page":    "1",
	}
	detailURL := FillEndpointTemplate(src.Endpoint, values) + "/" + url.QueryEscape(id)

	var payload map[string]any
	result, err := c.breaker.Execute(func() (interface{}, error) {
		err := retry.WithBackoff(ctx, c.retryCfg, func() error {
			var fetchErr error
			payload, fetchErr = getJSON(ctx, c.client, detailURL)
			return fetchErr
		})
		return payload, err
	})
	if err != nil {
		return nil, detailURL, err
	}

	item := unwrapDetail(result.(map[string]any))
	if item == nil {
		return nil, detailURL, nil
	}

	art := mapAPIItem(item, src)
	if art.ID == 0 {
		if n, convErr := strconv.Atoi(id); convErr == nil {
			art.ID = n
		}
	}
	return &art, detailURL, nil
}

// unwrapDetail peels the response envelope down to the article object.
func unwrapDetail(payload map[string]any) map[string]any {
	for _, key := range []string{"item", "article", "data"} {
		if inner, ok := payload[key].(map[string]any); ok {
			return inner
		}
	}
	if len(payload) == 0 {
		return nil
	}
	return payload
}
