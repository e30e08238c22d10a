// Package view derives the filtered, sorted row set and summary
// statistics from a record snapshot. Everything here is a pure function
// of (records, filter): no state, no side effects, same output for the
// same input.
package view

import (
	"math"
	"slices"
	"strings"

	"kharcha/internal/core"
)

// Filter is the conjunctive filter criteria. Zero-valued fields always
// pass. Category "All" is equivalent to no category filter.
type Filter struct {
	Month    string // "YYYY-MM" date prefix
	Category string
	Search   string // case-insensitive substring of the note
}

// Stats summarizes the filtered rows. Average is zero Money when Count
// is zero.
type Stats struct {
	Total   core.Money
	Count   int
	Average core.Money
}

// Result is the derived view: rows sorted by date descending (stable on
// store order for equal dates) plus their statistics.
type Result struct {
	Rows  []core.Record
	Stats Stats
}

// Matches reports whether the record passes every given criterion.
func Matches(r core.Record, f Filter) bool {
	if f.Month != "" && !strings.HasPrefix(r.Date, f.Month) {
		return false
	}
	if f.Category != "" && f.Category != "All" && string(r.Category) != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Note), q) {
			return false
		}
	}
	return true
}

// View filters and sorts the records and computes their stats.
func View(records []core.Record, f Filter) Result {
	rows := make([]core.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, f) {
			rows = append(rows, r)
		}
	}

	// Date tokens are zero-padded ISO, so lexicographic order is date
	// order. Stable sort preserves store order for equal dates.
	slices.SortStableFunc(rows, func(a, b core.Record) int {
		return strings.Compare(b.Date, a.Date)
	})

	var total int64
	for _, r := range rows {
		total += r.Amount.Cents
	}
	stats := Stats{
		Total: core.Money{Cents: total},
		Count: len(rows),
	}
	if stats.Count > 0 {
		stats.Average = core.Money{Cents: int64(math.Round(float64(total) / float64(stats.Count)))}
	}

	return Result{Rows: rows, Stats: stats}
}
