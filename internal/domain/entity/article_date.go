package entity

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// epochMillisCutoff separates epoch seconds from epoch milliseconds.
// Numeric values below it are seconds, values at or above it milliseconds.
const epochMillisCutoff = 10_000_000_000

// displayLayout is the dd/MM/yyyy rendering used by the article pages.
const displayLayout = "02/01/2006"

var subMillisPattern = regexp.MustCompile(`\.(\d{3})\d+$`)

// PublishDate is the single authoritative instant resolved from an
// article's redundant date fields, together with its render-ready forms.
type PublishDate struct {
	Time     time.Time
	ISO      string
	Display  string
	TimeZone string
}

// PublishDate resolves the article's publish instant from the candidate
// fields in precedence order: startPublish, date, created, updated. The
// first candidate that parses wins, so sort ordering and display always
// agree on which field was used. The second return value is false when no
// candidate parses, meaning "no displayable date"; such articles sort as
// epoch 0.
func (a *Article) PublishDate() (PublishDate, bool) {
	candidates := []any{a.StartPublish, a.Date, a.Created, a.Updated}

	for _, candidate := range candidates {
		parsed, tz, ok := resolveCandidate(candidate)
		if !ok {
			continue
		}
		return PublishDate{
			Time:     parsed,
			ISO:      parsed.UTC().Format("2006-01-02T15:04:05.000Z"),
			Display:  formatDisplay(parsed, tz),
			TimeZone: tz,
		}, true
	}

	return PublishDate{}, false
}

// Timestamp returns the resolved publish instant for sort ordering.
// Unresolvable articles yield the Unix epoch so they sort oldest.
func (a *Article) Timestamp() time.Time {
	if pd, ok := a.PublishDate(); ok {
		return pd.Time
	}
	return time.Unix(0, 0)
}

// resolveCandidate attempts to interpret one raw candidate value as an
// instant. The accepted shapes mirror what the upstream APIs actually send:
// native timestamps, epoch numbers (seconds or milliseconds), structured
// {date, timezone} objects, and date strings. The timezone is carried for
// display formatting only; it never shifts the instant.
func resolveCandidate(value any) (time.Time, string, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, "", false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, "", false
		}
		return v, "", true
	case float64:
		return fromEpoch(int64(v)), "", true
	case int:
		return fromEpoch(int64(v)), "", true
	case int64:
		return fromEpoch(v), "", true
	case map[string]any:
		raw, _ := v["date"].(string)
		parsed, ok := parseDateString(raw)
		if !ok {
			return time.Time{}, "", false
		}
		tz, _ := v["timezone"].(string)
		return parsed, tz, true
	case string:
		parsed, ok := parseDateString(v)
		if !ok {
			return time.Time{}, "", false
		}
		return parsed, "", true
	default:
		return time.Time{}, "", false
	}
}

func fromEpoch(value int64) time.Time {
	if value < epochMillisCutoff {
		return time.Unix(value, 0).UTC()
	}
	return time.UnixMilli(value).UTC()
}

// parseDateString parses heterogeneous upstream date strings. Purely-numeric
// strings are epoch values. Otherwise the string is normalized (space
// separator replaced with T, sub-millisecond precision stripped) and tried
// as RFC 3339 with and without an appended UTC marker; free-text formats
// such as RFC 1123 pubDates fall through to dateparse.
func parseDateString(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	if isDigits(trimmed) {
		if epoch, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return fromEpoch(epoch), true
		}
		return time.Time{}, false
	}

	normalized := strings.Replace(trimmed, " ", "T", 1)
	normalized = subMillisPattern.ReplaceAllString(normalized, ".$1")

	for _, candidate := range []string{normalized, normalized + "Z", trimmed, trimmed + "Z"} {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed, true
			}
		}
	}

	if parsed, err := dateparse.ParseIn(trimmed, time.UTC); err == nil {
		return parsed, true
	}

	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func formatDisplay(t time.Time, tz string) string {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return t.In(loc).Format(displayLayout)
		}
	}
	return t.UTC().Format(displayLayout)
}
