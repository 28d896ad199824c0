package entity

import (
	"fmt"
	"strings"
)

// Source type discriminants for the NewsSource tagged union.
const (
	SourceTypeAPI = "api"
	SourceTypeRSS = "rss"
)

// NewsSource describes one upstream origin of articles. It is configuration,
// not runtime state: the catalog is loaded once at process start and treated
// as read-only by the aggregator and resolver.
//
// The Type field discriminates the union: "api" sources carry an endpoint
// template with {token} placeholders plus pagination parameters, while "rss"
// sources carry a plain feed URL. FirstPageOnly and MaxAgeDays express the
// per-source freshness and pagination policy.
type NewsSource struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Type             string            `yaml:"type" json:"type"`
	Endpoint         string            `yaml:"endpoint" json:"-"`
	PerPage          int               `yaml:"perPage,omitempty" json:"-"`
	Params           map[string]string `yaml:"params,omitempty" json:"-"`
	FirstPageOnly    bool              `yaml:"firstPageOnly,omitempty" json:"firstPageOnly,omitempty"`
	MaxAgeDays       int               `yaml:"maxAgeDays,omitempty" json:"maxAgeDays,omitempty"`
	EnabledByDefault bool              `yaml:"enabledByDefault,omitempty" json:"-"`
}

// Validate checks the NewsSource configuration fields.
func (s *NewsSource) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Message: "source id is required"}
	}
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "source name is required"}
	}
	if s.Type != SourceTypeAPI && s.Type != SourceTypeRSS {
		return fmt.Errorf("invalid source type: %s (must be %s or %s)", s.Type, SourceTypeAPI, SourceTypeRSS)
	}
	if strings.TrimSpace(s.Endpoint) == "" {
		return &ValidationError{Field: "endpoint", Message: "source endpoint is required"}
	}
	if s.MaxAgeDays < 0 {
		return &ValidationError{Field: "maxAgeDays", Message: "maxAgeDays cannot be negative"}
	}
	return nil
}

// EffectivePerPage returns the configured page size for API sources,
// falling back to the default the upstream expects.
func (s *NewsSource) EffectivePerPage() int {
	if s.PerPage > 0 {
		return s.PerPage
	}
	return 24
}
