// Package ranking orders normalized content records for the daily report.
package ranking

import (
	"sort"
	"time"
)

// DefaultLimit is the number of records kept per content section.
const DefaultLimit = 3

// Item is anything that can be ranked: a publish timestamp plus an
// engagement score. Records without an engagement metric return 0 and
// are ordered by recency alone.
type Item interface {
	Published() time.Time
	Score() int64
}

// Top filters items to the lookback window and returns the top records,
// ordered by engagement score descending, then publish time descending.
//
// Records published more than window before now are dropped, as are
// records with a future timestamp (clock-skew guard). The sort is stable:
// records tied on both keys keep their input order, so output is
// reproducible across runs given identical input. An empty result is a
// valid outcome, never an error.
func Top[T Item](items []T, window time.Duration, limit int, now time.Time) []T {
	eligible := make([]T, 0, len(items))
	for _, it := range items {
		age := now.Sub(it.Published())
		if age < 0 || age > window {
			continue
		}
		eligible = append(eligible, it)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Score() != eligible[j].Score() {
			return eligible[i].Score() > eligible[j].Score()
		}
		return eligible[i].Published().After(eligible[j].Published())
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible
}
