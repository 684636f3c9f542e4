// Package status classifies documents by how close they are to expiry.
package status

import (
	"sort"
	"time"
)

type Status string

const (
	Safe    Status = "safe"
	Warning Status = "warning"
	Danger  Status = "danger"
	Expired Status = "expired"
)

// warningWindowDays is the outer window shared by every duration band.
const warningWindowDays = 90

type Info struct {
	DaysRemaining int    `json:"daysRemaining"`
	Status        Status `json:"status"`
	IsExpired     bool   `json:"isExpired"`
}

// Classify computes the risk tier of a validity window at now.
//
// The danger threshold depends on the window length: 90 days for windows of a
// year or more, 45 days for windows up to 182 days, 30 days otherwise. Windows
// between 183 and 364 days therefore get the tightest threshold.
func Classify(start, end, now time.Time) Info {
	days := WholeDaysBetween(end, now)
	if end.Before(now) {
		return Info{DaysRemaining: days, Status: Expired, IsExpired: true}
	}

	total := WholeDaysBetween(end, start)
	red := 30
	if total >= 365 {
		red = 90
	} else if total <= 182 {
		red = 45
	}

	s := Safe
	if days <= red {
		s = Danger
	} else if days <= warningWindowDays {
		s = Warning
	}
	return Info{DaysRemaining: days, Status: s}
}

// WholeDaysBetween returns the number of full 24h periods from b to a,
// truncated toward zero. It is negative when a is before b.
func WholeDaysBetween(a, b time.Time) int {
	return int(a.Sub(b) / (24 * time.Hour))
}

// Dated is anything with a validity window.
type Dated interface {
	Window() (start, end time.Time)
}

// SortByEndDate orders items by ascending end date, keeping the relative
// order of equal end dates.
func SortByEndDate[T Dated](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		_, ei := items[i].Window()
		_, ej := items[j].Window()
		return ei.Before(ej)
	})
}

// Expiring returns the items classified as danger at now.
func Expiring[T Dated](items []T, now time.Time) []T {
	var out []T
	for _, it := range items {
		start, end := it.Window()
		if Classify(start, end, now).Status == Danger {
			out = append(out, it)
		}
	}
	return out
}

// GroupBy buckets items by key and returns the keys sorted.
func GroupBy[T any](items []T, key func(T) string) (map[string][]T, []string) {
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		groups[k] = append(groups[k], it)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}
