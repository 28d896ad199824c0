// Package config provides the source catalog: the immutable, ordered list of
// upstream news sources the aggregator and resolver operate on. The built-in
// catalog can be replaced by a YAML file for testing and per-deployment
// overrides; it is loaded once at process start and injected, never global.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/3weTN/latest-news/internal/domain/entity"
)

// DefaultCatalog returns the built-in source list. The order is significant:
// it is the dispatch order used for tie-breaking when articles share a
// resolved timestamp.
func DefaultCatalog() []entity.NewsSource {
	return []entity.NewsSource{
		{
			ID:               "mosaique",
			Name:             "Mosaique FM",
			Type:             entity.SourceTypeAPI,
			Endpoint:         "https://api.mosaiquefm.net/api/{lang}/{perPage}/{page}/articles",
			PerPage:          24,
			Params: map[string]string{
				"lang":      "ar",
				"imageBase": "https://www.mosaiquefm.net",
			},
			EnabledByDefault: true,
		},
		{
			ID:               "rtci",
			Name:             "RTCI",
			Type:             entity.SourceTypeRSS,
			Endpoint:         "https://www.rtci.tn/articles/rss",
			FirstPageOnly:    true,
			MaxAgeDays:       30,
			EnabledByDefault: true,
		},
		{
			ID:               "tunisienumerique",
			Name:             "Tunisie Numérique",
			Type:             entity.SourceTypeRSS,
			Endpoint:         "https://www.tunisienumerique.com/feed-actualites-tunisie.xml",
			MaxAgeDays:       2,
			EnabledByDefault: true,
		},
		{
			ID:               "kapitalis",
			Name:             "Kapitalis",
			Type:             entity.SourceTypeRSS,
			Endpoint:         "https://kapitalis.com/tunisie/feed/",
			MaxAgeDays:       2,
			EnabledByDefault: true,
		},
		{
			ID:               "lapresse",
			Name:             "La Presse",
			Type:             entity.SourceTypeRSS,
			Endpoint:         "https://lapresse.tn/feed/",
			MaxAgeDays:       2,
			EnabledByDefault: true,
		},
	}
}

// catalogFile is the YAML shape of a catalog override file.
type catalogFile struct {
	Sources []entity.NewsSource `yaml:"sources"`
}

// LoadCatalog returns the source catalog. When path is empty the built-in
// catalog is used; otherwise the YAML file at path replaces it entirely.
// Every source is validated and duplicate ids are rejected, so a bad
// override fails fast at startup instead of surfacing as missing content.
func LoadCatalog(path string) ([]entity.NewsSource, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		if seen[src.ID] {
			return nil, fmt.Errorf("duplicate source id: %s", src.ID)
		}
		seen[src.ID] = true
	}

	return file.Sources, nil
}
