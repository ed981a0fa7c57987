package analysis

import (
	"testing"
	"time"

	"datescout/internal/domain/event"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func marchParams() event.AnalysisParams {
	return event.AnalysisParams{
		City:              "Prague",
		Category:          "Technology",
		ExpectedAttendees: 500,
		StartDate:         day(15),
		EndDate:           day(16),
		DateRangeStart:    day(1),
		DateRangeEnd:      day(31),
	}
}

func TestGenerateCandidatesIncludesPreferredRange(t *testing.T) {
	candidates := GenerateCandidates(marchParams(), DefaultConfig())

	found := false
	for _, c := range candidates {
		if c.StartDate.Equal(day(15)) && c.EndDate.Equal(day(16)) {
			found = true
		}
	}
	if !found {
		t.Error("preferred date range missing from candidates")
	}
}

func TestGenerateCandidatesNoDuplicatePairs(t *testing.T) {
	candidates := GenerateCandidates(marchParams(), DefaultConfig())

	seen := make(map[string]bool)
	for _, c := range candidates {
		key := c.StartDate.Format("2006-01-02") + "|" + c.EndDate.Format("2006-01-02")
		if seen[key] {
			t.Errorf("duplicate candidate pair %s", key)
		}
		seen[key] = true
	}
}

func TestGenerateCandidatesStayInsideWindow(t *testing.T) {
	params := marchParams()
	// Preferred start near the window edge trims part of the offset sweep.
	params.StartDate = day(2)
	params.EndDate = day(3)

	candidates := GenerateCandidates(params, DefaultConfig())
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	for _, c := range candidates {
		if c.StartDate.Before(day(1)) || c.EndDate.After(day(31)) {
			t.Errorf("candidate %v..%v outside analysis window", c.StartDate, c.EndDate)
		}
	}
}

func TestGenerateCandidatesPreserveDuration(t *testing.T) {
	candidates := GenerateCandidates(marchParams(), DefaultConfig())

	for _, c := range candidates {
		if got := c.EndDate.Sub(c.StartDate); got != 24*time.Hour {
			t.Errorf("candidate duration = %v, want 24h", got)
		}
	}
}

func TestGenerateCandidatesDeterministic(t *testing.T) {
	first := GenerateCandidates(marchParams(), DefaultConfig())
	second := GenerateCandidates(marchParams(), DefaultConfig())

	if len(first) != len(second) {
		t.Fatalf("candidate counts differ: %d != %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartDate.Equal(second[i].StartDate) || !first[i].EndDate.Equal(second[i].EndDate) {
			t.Errorf("candidate %d differs between runs", i)
		}
	}
}

func TestGenerateCandidatesSingleDayEvent(t *testing.T) {
	params := marchParams()
	params.EndDate = params.StartDate

	candidates := GenerateCandidates(params, DefaultConfig())
	for _, c := range candidates {
		if !c.StartDate.Equal(c.EndDate) {
			t.Errorf("single-day event candidate spans %v..%v", c.StartDate, c.EndDate)
		}
	}
}
