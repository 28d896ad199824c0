package adapter

import (
	"net/http"

	"github.com/3weTN/latest-news/internal/domain/entity"
	"github.com/3weTN/latest-news/internal/usecase/feed"
)

// Factory builds the adapter registry consumed by the feed service, keyed
// by source type discriminant.
type Factory struct {
	client *http.Client
	images ImageResolver
}

// NewFactory creates a Factory. All adapters share the HTTP client; the
// image resolver feeds the RSS adapter's fallback image lookup.
func NewFactory(client *http.Client, images ImageResolver) *Factory {
	return &Factory{client: client, images: images}
}

// CreateAdapters returns one adapter per supported source type.
func (f *Factory) CreateAdapters() map[string]feed.SourceAdapter {
	return map[string]feed.SourceAdapter{
		entity.SourceTypeAPI: NewAPIAdapter(f.client),
		entity.SourceTypeRSS: NewRSSAdapter(f.client, f.images),
	}
}
