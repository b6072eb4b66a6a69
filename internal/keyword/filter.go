// Package keyword filters keyword rows and shapes them for the map view.
package keyword

import (
	"strings"
	"time"

	"newsbug/internal/model"
)

// Filter narrows keyword rows. Zero-valued fields do not filter.
type Filter struct {
	Keyword  string
	MinCases *int
	MaxCases *int
	From     *time.Time
	To       *time.Time
}

// Apply returns the rows matching every set criterion. The date bounds are
// exclusive on both ends.
func Apply(items []model.KeywordDetails, f Filter) []model.KeywordDetails {
	needle := strings.ToLower(strings.TrimSpace(f.Keyword))

	result := make([]model.KeywordDetails, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.Keyword), needle) {
			continue
		}
		if f.MinCases != nil && item.CaseCount < *f.MinCases {
			continue
		}
		if f.MaxCases != nil && item.CaseCount > *f.MaxCases {
			continue
		}
		if f.From != nil && !item.Date.After(*f.From) {
			continue
		}
		if f.To != nil && !item.Date.Before(*f.To) {
			continue
		}
		result = append(result, item)
	}

	return result
}

// CaseCountRange returns the smallest and largest case count, or 0, 0 for no rows.
func CaseCountRange(items []model.KeywordDetails) (int, int) {
	if len(items) == 0 {
		return 0, 0
	}

	lo, hi := items[0].CaseCount, items[0].CaseCount
	for _, item := range items[1:] {
		lo = min(lo, item.CaseCount)
		hi = max(hi, item.CaseCount)
	}

	return lo, hi
}

// PresetRange returns the window of the last days days ending at now. Zero
// days means since the start of today.
func PresetRange(days int, now time.Time) (time.Time, time.Time) {
	if days == 0 {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), now
	}
	return now.AddDate(0, 0, -days), now
}
