// Package adapter implements the per-source-type fetch adapters: the JSON
// article API client and the RSS feed client. Both normalize upstream
// payloads into entity.Article records; all network calls go through retry
// with backoff and a per-source circuit breaker.
package adapter

import (
	"context"
	"strconv"
	"sync"

	"github.com/3weTN/latest-news/internal/resilience/circuitbreaker"
	"github.com/3weTN/latest-news/internal/utils/text"
)

// maxBodySize bounds how much of an upstream response body is read.
const maxBodySize = 10 * 1024 * 1024

// userAgent is sent on every upstream request. Some feeds reject the
// default Go client string.
const userAgent = "Mozilla/5.0 (compatible; LatestNewsBot/1.0; +https://github.com/3weTN/latest-news)"

// ImageResolver resolves a fallback image for an article page when the feed
// item itself carries none. Implementations return "" when nothing usable
// was found; resolution is best effort and never fails the item.
type ImageResolver interface {
	Resolve(ctx context.Context, pageURL string) string
}

// breakerRegistry holds one circuit breaker per source id, created lazily.
// One flaky upstream must not open the breaker for the others.
type breakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func newBreakerRegistry() *breakerRegistry {
	return &breakerRegistry{breakers: make(map[string]*circuitbreaker.CircuitBreaker)}
}

func (r *breakerRegistry) get(sourceID string) *circuitbreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[sourceID]
	if !ok {
		cb = circuitbreaker.New(circuitbreaker.SourceConfig(sourceID))
		r.breakers[sourceID] = cb
	}
	return cb
}

// strField extracts a string field from a decoded JSON object, tolerating
// the loose shapes upstream payloads use for text nodes.
func strField(item map[string]any, key string) string {
	return text.TextContent(item[key])
}

// asInt coerces a decoded JSON value into an int. JSON numbers decode as
// float64; ids occasionally arrive as strings.
func asInt(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
