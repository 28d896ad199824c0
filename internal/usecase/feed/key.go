package feed

import (
	"sort"
	"strings"
)

// AllSourcesKey is the sentinel cache-key component meaning "no source
// filter": every configured source participates.
const AllSourcesKey = "__all__"

// NormalizeSourceKey canonicalizes a source filter into a cache-key
// component: ids are trimmed, deduplicated, sorted, and comma-joined.
// An empty or all-blank filter normalizes to AllSourcesKey, so requests
// for "everything" share one cache entry regardless of how they were
// spelled.
func NormalizeSourceKey(sources []string) string {
	if len(sources) == 0 {
		return AllSourcesKey
	}

	seen := make(map[string]struct{}, len(sources))
	unique := make([]string, 0, len(sources))
	for _, id := range sources {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}

	if len(unique) == 0 {
		return AllSourcesKey
	}

	sort.Strings(unique)
	return strings.Join(unique, ",")
}

// ParseSourceKey inverts NormalizeSourceKey: it returns the requested
// source-id set, or nil for the all-sources sentinel.
func ParseSourceKey(key string) map[string]struct{} {
	if key == AllSourcesKey {
		return nil
	}

	requested := make(map[string]struct{})
	for _, id := range strings.Split(key, ",") {
		trimmed := strings.TrimSpace(id)
		if trimmed != "" {
			requested[trimmed] = struct{}{}
		}
	}
	return requested
}
