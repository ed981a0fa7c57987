// internal/service/dedup/dedup.go

package dedup

import (
	"strings"

	"datescout/internal/domain/event"
)

// Deduplicator collapses near-duplicate event records reported by multiple
// providers. It is order-preserving and idempotent: the first-seen record
// of a duplicate group wins and later ones are dropped.
type Deduplicator struct {
	titleSimilarityThreshold float64
}

// NewDeduplicator creates a deduplicator with the given fuzzy-title
// similarity threshold (0..1)
func NewDeduplicator(titleSimilarityThreshold float64) *Deduplicator {
	return &Deduplicator{
		titleSimilarityThreshold: titleSimilarityThreshold,
	}
}

// Dedupe returns the input with near-duplicates removed. Two events are
// duplicates when their dates match and either both carry the same
// non-empty venue or their normalized titles are sufficiently similar.
// An empty venue never establishes a match on its own.
func (d *Deduplicator) Dedupe(events []event.Event) []event.Event {
	if len(events) <= 1 {
		return events
	}

	kept := make([]event.Event, 0, len(events))
	// Kept-event indices grouped by day, so each incoming record is only
	// compared against same-day survivors.
	byDay := make(map[string][]int)

	for _, e := range events {
		day := event.Day(e.Date).Format("2006-01-02")

		duplicate := false
		for _, idx := range byDay[day] {
			if d.isDuplicate(e, kept[idx]) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		byDay[day] = append(byDay[day], len(kept))
		kept = append(kept, e)
	}

	return kept
}

// isDuplicate assumes both events fall on the same day
func (d *Deduplicator) isDuplicate(a, b event.Event) bool {
	venueA := normalize(a.Venue)
	venueB := normalize(b.Venue)
	if venueA != "" && venueA == venueB {
		return true
	}

	return TitleSimilarity(a.Title, b.Title) >= d.titleSimilarityThreshold
}

// Key returns the composite dedup identity of an event
func Key(e event.Event) string {
	return normalize(e.Title) + "|" + event.Day(e.Date).Format("2006-01-02") + "|" + normalize(e.Venue)
}

// TitleSimilarity computes a normalized edit-distance ratio between two
// titles: (maxLen - editDistance) / maxLen, in [0,1]. Two empty titles are
// not considered similar.
func TitleSimilarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming formulation
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// normalize lowercases and collapses whitespace for comparisons
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
