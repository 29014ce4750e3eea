package listing

import (
	"strings"
	"time"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// MatchesSearch reports whether any of r's search fields contains q,
// ignoring case. An empty query matches everything.
func MatchesSearch(r domain.Record, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, field := range r.SearchFields() {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SearchRecords returns the records matching q, in their original order.
func SearchRecords[T domain.Record](items []T, q string) []T {
	if strings.TrimSpace(q) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesSearch(item, q) {
			out = append(out, item)
		}
	}
	return out
}

// RecordPrepare is the default Prepare hook for record lists: it applies the
// filter's search locally.
func RecordPrepare[T domain.Record](f Filter, items []T) []T {
	return SearchRecords(items, f.Search)
}

// GuestPrepare searches locally and, on the expired tab, keeps only requests
// that have lapsed by now.
func GuestPrepare(f Filter, items []domain.GuestRequest) []domain.GuestRequest {
	items = SearchRecords(items, f.Search)
	if f.Tab != domain.GuestExpired {
		return items
	}
	now := time.Now()
	out := items[:0:0]
	for _, g := range items {
		if g.Expired(now) {
			out = append(out, g)
		}
	}
	return out
}
