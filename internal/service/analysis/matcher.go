// internal/service/analysis/matcher.go

package analysis

import (
	"strings"

	"datescout/internal/domain/event"
)

// relatedCategories maps an analysis category to the event categories that
// compete with it. The table is intentionally narrow to avoid false
// positives from broad category bridging, and it is not guaranteed to be
// reciprocal: only the row keyed by the analysis category is consulted.
var relatedCategories = map[string][]string{
	"Technology":    {"Technology"},
	"Business":      {"Business", "Finance", "Marketing"},
	"Finance":       {"Finance", "Business"},
	"Marketing":     {"Marketing"},
	"Music":         {"Music", "Entertainment"},
	"Entertainment": {"Entertainment", "Music", "Culture"},
	"Culture":       {"Culture", "Arts"},
	"Arts":          {"Arts", "Culture"},
	"Sports":        {"Sports"},
	"Food":          {"Food", "Culture"},
	"Education":     {"Education", "Technology"},
}

// MatchCompetingEvents selects the events that compete with a candidate
// date range. An event competes if its date falls inside the range
// (inclusive) and it either shares the analysis category, appears in the
// related-category table for that category, or is significant enough to
// draw audience regardless of category (it has a venue).
func MatchCompetingEvents(candidate event.DateCandidate, events []event.Event, params event.AnalysisParams) []event.Event {
	start := event.Day(candidate.StartDate)
	end := event.Day(candidate.EndDate)

	var competing []event.Event
	for _, e := range events {
		day := event.Day(e.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		if isRelevantCompetitor(e, params.Category) {
			competing = append(competing, e)
		}
	}

	return competing
}

func isRelevantCompetitor(e event.Event, category string) bool {
	if strings.EqualFold(e.Category, category) {
		return true
	}
	for _, related := range relatedCategories[canonicalCategory(category)] {
		if strings.EqualFold(e.Category, related) {
			return true
		}
	}
	// Venue-backed events are significant enough to compete for local
	// audience attention across category lines.
	return e.Venue != ""
}

// canonicalCategory finds the table key matching a category regardless of
// case
func canonicalCategory(category string) string {
	if _, ok := relatedCategories[category]; ok {
		return category
	}
	for key := range relatedCategories {
		if strings.EqualFold(key, category) {
			return key
		}
	}
	return category
}
