package analysis

import (
	"testing"

	"datescout/internal/domain/event"
)

func competitor(id, category, venue string, d int) event.Event {
	return event.Event{
		ID:       id,
		Title:    id,
		Category: category,
		Venue:    venue,
		Date:     day(d),
		City:     "Prague",
	}
}

func marchCandidate() event.DateCandidate {
	return event.DateCandidate{StartDate: day(15), EndDate: day(16)}
}

func TestMatchSameCategory(t *testing.T) {
	params := marchParams()
	events := []event.Event{competitor("tech", "Technology", "", 15)}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 1 {
		t.Fatalf("same-category event should compete, got %d matches", len(got))
	}
}

func TestMatchDateBoundariesInclusive(t *testing.T) {
	params := marchParams()
	events := []event.Event{
		competitor("start", "Technology", "", 15),
		competitor("end", "Technology", "", 16),
		competitor("before", "Technology", "", 14),
		competitor("after", "Technology", "", 17),
	}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches on inclusive boundaries, got %d", len(got))
	}
	for _, e := range got {
		if e.ID != "start" && e.ID != "end" {
			t.Errorf("unexpected match %s", e.ID)
		}
	}
}

func TestMatchRelatedCategory(t *testing.T) {
	params := marchParams()
	params.Category = "Business"
	events := []event.Event{competitor("fin", "Finance", "", 15)}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 1 {
		t.Fatal("Finance event should compete with a Business analysis")
	}
}

func TestMatchRelatedCategoryNotReciprocal(t *testing.T) {
	// Business lists Marketing, but Marketing's own row does not list
	// Business; only the analysis category's row is consulted.
	params := marchParams()
	params.Category = "Marketing"
	events := []event.Event{competitor("biz", "Business", "", 15)}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 0 {
		t.Fatal("Business event without venue should not compete with a Marketing analysis")
	}
}

func TestMatchSignificantEventCrossesCategories(t *testing.T) {
	params := marchParams() // Technology
	events := []event.Event{
		competitor("gig", "Music", "O2 Arena", 15),
		competitor("meetup", "Music", "", 15),
	}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 1 {
		t.Fatalf("only the venue-backed event should compete, got %d", len(got))
	}
	if got[0].ID != "gig" {
		t.Errorf("expected the venue-backed event, got %s", got[0].ID)
	}
}

func TestMatchCategoryCaseInsensitive(t *testing.T) {
	params := marchParams()
	events := []event.Event{competitor("tech", "technology", "", 15)}

	got := MatchCompetingEvents(marchCandidate(), events, params)
	if len(got) != 1 {
		t.Fatal("category comparison should be case-insensitive")
	}
}
