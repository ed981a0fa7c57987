package location

import (
	"testing"
	"time"

	"datescout/internal/domain/event"
)

func testEvent(city, venue string) event.Event {
	return event.Event{
		ID:       "e1",
		Title:    "Annual Gathering",
		Date:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		City:     city,
		Venue:    venue,
		Category: "Technology",
	}
}

func TestResolveCityAlias(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		raw  string
		want string
	}{
		{"Prague", "Prague"},
		{"praha", "Prague"},
		{"  PRAHA  ", "Prague"},
		{"London", "London"},
		{"Wien", "Vienna"},
	}

	for _, tc := range cases {
		got := n.ResolveCity(tc.raw)
		if got == nil {
			t.Errorf("ResolveCity(%q) = nil, want %s", tc.raw, tc.want)
			continue
		}
		if got.Name != tc.want {
			t.Errorf("ResolveCity(%q) = %s, want %s", tc.raw, got.Name, tc.want)
		}
		if got.Confidence != ConfidenceHigh {
			t.Errorf("ResolveCity(%q) confidence = %s, want high", tc.raw, got.Confidence)
		}
	}
}

func TestResolveCityVenueTable(t *testing.T) {
	n := NewNormalizer()

	got := n.ResolveCity("O2 Arena")
	if got == nil || got.Name != "Prague" {
		t.Fatalf("ResolveCity(O2 Arena) = %v, want Prague", got)
	}
	if got.Confidence != ConfidenceHigh {
		t.Errorf("exact venue match confidence = %s, want high", got.Confidence)
	}

	// Substring match in either direction gets a lower confidence tag.
	got = n.ResolveCity("O2 Arena Prague Main Hall")
	if got == nil || got.Name != "Prague" {
		t.Fatalf("ResolveCity(O2 Arena Prague Main Hall) = %v, want Prague", got)
	}
}

func TestResolveCityUnknown(t *testing.T) {
	n := NewNormalizer()

	if got := n.ResolveCity("Some Random Hall"); got != nil {
		t.Errorf("ResolveCity(Some Random Hall) = %v, want nil", got)
	}
	if got := n.ResolveCity(""); got != nil {
		t.Errorf("ResolveCity(empty) = %v, want nil", got)
	}
}

func TestBelongsToVenueOverridesCountryInCityField(t *testing.T) {
	n := NewNormalizer()

	// Providers sometimes put a country name in the city field; the venue
	// is then the only reliable locality signal.
	e := testEvent("Czech Republic", "O2 Arena")

	if !n.BelongsTo(e, "Prague") {
		t.Error("event at O2 Arena should belong to Prague")
	}
	if n.BelongsTo(e, "London") {
		t.Error("event at O2 Arena should not belong to London")
	}
}

func TestBelongsToCityAlias(t *testing.T) {
	n := NewNormalizer()

	e := testEvent("Praha", "")
	if !n.BelongsTo(e, "Prague") {
		t.Error("Praha should resolve to Prague")
	}
}

func TestBelongsToDifferentResolvedCityExcluded(t *testing.T) {
	n := NewNormalizer()

	// The city field resolves to a different canonical city; the venue
	// must not override that.
	e := testEvent("Berlin", "O2 Arena")
	if n.BelongsTo(e, "Prague") {
		t.Error("event with city Berlin should not belong to Prague")
	}
}

func TestBelongsToUnresolvableExcluded(t *testing.T) {
	n := NewNormalizer()

	e := testEvent("Atlantis", "Mystery Hall")
	if n.BelongsTo(e, "Prague") {
		t.Error("unresolvable event should be excluded")
	}
}

func TestBelongsToUnknownTargetFallsBackToLiteralMatch(t *testing.T) {
	n := NewNormalizer()

	e := testEvent("Springfield", "")
	if !n.BelongsTo(e, "Springfield") {
		t.Error("literal city match should hold for cities outside the alias table")
	}
	if n.BelongsTo(testEvent("Shelbyville", ""), "Springfield") {
		t.Error("different literal city should not match")
	}
}
