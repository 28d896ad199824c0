package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/3weTN/latest-news/internal/domain/entity"
)

func TestDetailClient_FetchDetail(t *testing.T) {
	envelopes := map[string]string{
		"item":    `{"item": {"id": 99, "title": "Wrapped in item", "link": "https://x.tn/99"}}`,
		"article": `{"article": {"id": 99, "title": "Wrapped in article", "link": "https://x.tn/99"}}`,
		"data":    `{"data": {"id": 99, "title": "Wrapped in data", "link": "https://x.tn/99"}}`,
		"bare":    `{"id": 99, "title": "Bare object", "link": "https://x.tn/99"}`,
	}

	for name, body := range envelopes {
		t.Run(name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewDetailClient(server.Client())
			src := apiSource(server.URL + "/api/{lang}/{perPage}/{page}/articles")

			art, attemptedURL, err := client.FetchDetail(context.Background(), src, "fr", "99")
			if err != nil {
				t.Fatalf("FetchDetail() error = %v", err)
			}
			if art == nil {
				t.Fatal("FetchDetail() article = nil, want article")
			}
			if art.ID != 99 {
				t.Errorf("ID = %d, want 99", art.ID)
			}
			if art.Source != "mosaique" {
				t.Errorf("Source = %q, want mosaique", art.Source)
			}
			if gotPath != "/api/fr/5/1/articles/99" {
				t.Errorf("request path = %q, want /api/fr/5/1/articles/99", gotPath)
			}
			if !strings.HasSuffix(attemptedURL, "/api/fr/5/1/articles/99") {
				t.Errorf("attemptedURL = %q, want detail URL", attemptedURL)
			}
		})
	}
}

func TestDetailClient_FetchDetailNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewDetailClient(server.Client())
	src := entity.NewsSource{
		ID:       "mosaique",
		Type:     entity.SourceTypeAPI,
		Endpoint: server.URL + "/api/{lang}/{perPage}/{page}/articles",
	}

	art, attemptedURL, err := client.FetchDetail(context.Background(), src, "ar", "123")
	if err == nil {
		t.Fatal("FetchDetail() error = nil, want upstream status error")
	}
	if art != nil {
		t.Errorf("article = %+v, want nil", art)
	}
	if attemptedURL == "" {
		t.Error("attemptedURL empty, want URL recorded even on failure")
	}
}
