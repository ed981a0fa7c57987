package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"datescout/internal/domain/event"
	"datescout/internal/service/dedup"
	"datescout/internal/service/location"
)

type fakeProvider struct {
	name   string
	events []event.Event
	err    error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(ctx context.Context, city string, from, to time.Time, category string) ([]event.Event, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.events, nil
}

func newTestEngine(t *testing.T, providers ...event.Provider) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	return NewEngine(
		providers,
		location.NewNormalizer(),
		dedup.NewDeduplicator(0.8),
		NewScorer(cfg, nil, nil),
		nil,
		nil,
		cfg,
	)
}

func TestAnalyzeValidationFailureIsFatal(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{name: "a"})

	params := marchParams()
	params.City = ""

	result, err := eng.Analyze(context.Background(), params)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, event.ErrInvalidParams) {
		t.Errorf("error should wrap ErrInvalidParams, got %v", err)
	}
	if result != nil {
		t.Error("no partial result on validation failure")
	}
}

func TestAnalyzeSingleCompetitorHighRisk(t *testing.T) {
	summit := aiSummit()
	eng := newTestEngine(t, &fakeProvider{name: "cityevents", events: []event.Event{summit}})

	result, err := eng.Analyze(context.Background(), marchParams())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.EventsAnalyzed) != 1 {
		t.Fatalf("expected 1 analyzed event, got %d", len(result.EventsAnalyzed))
	}

	var preferred *event.DateRecommendation
	for i := range result.HighRiskDates {
		r := &result.HighRiskDates[i]
		if r.StartDate.Equal(day(15)) && r.EndDate.Equal(day(16)) {
			preferred = r
		}
	}
	if preferred == nil {
		t.Fatalf("preferred range should be high-risk, got %+v", result.HighRiskDates)
	}
	if preferred.ConflictScore != 75 {
		t.Errorf("conflict score = %v, want 75", preferred.ConflictScore)
	}
	if preferred.RiskLevel != event.RiskHigh {
		t.Errorf("risk level = %s, want high", preferred.RiskLevel)
	}
	if len(preferred.CompetingEvents) != 1 || preferred.CompetingEvents[0].ID != summit.ID {
		t.Errorf("competing events = %+v", preferred.CompetingEvents)
	}
}

func TestAnalyzeNoCompetitors(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{name: "cityevents"})

	result, err := eng.Analyze(context.Background(), marchParams())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.RecommendedDates) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(result.RecommendedDates))
	}
	for _, rec := range result.RecommendedDates {
		if rec.ConflictScore != 0 {
			t.Errorf("score = %v, want 0", rec.ConflictScore)
		}
		if rec.RiskLevel != event.RiskLow {
			t.Errorf("risk = %s, want low", rec.RiskLevel)
		}
		if len(rec.Reasons) != 1 || rec.Reasons[0] != "No major competing events found" {
			t.Errorf("reasons = %v", rec.Reasons)
		}
	}
	if len(result.HighRiskDates) != 0 {
		t.Errorf("no high-risk dates expected, got %d", len(result.HighRiskDates))
	}
}

func TestAnalyzeDegradedProvider(t *testing.T) {
	okEvents := []event.Event{
		{ID: "a", Title: "Jazz Evening", Date: day(10), City: "Prague", Venue: "Rudolfinum", Category: "Music"},
		{ID: "b", Title: "Startup Night", Date: day(12), City: "Prague", Category: "Technology"},
		{ID: "c", Title: "Robotics Expo", Date: day(20), City: "Prague", Category: "Technology"},
	}

	eng := newTestEngine(t,
		&fakeProvider{name: "broken", err: errors.New("connection refused")},
		&fakeProvider{name: "cityevents", events: okEvents},
	)

	result, err := eng.Analyze(context.Background(), marchParams())
	if err != nil {
		t.Fatalf("one failed provider must not abort the analysis: %v", err)
	}

	if len(result.EventsAnalyzed) != 3 {
		t.Errorf("expected the surviving provider's 3 events, got %d", len(result.EventsAnalyzed))
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 degraded-source warning, got %v", result.Warnings)
	}
}

func TestAnalyzeFiltersForeignAndDedupes(t *testing.T) {
	events := []event.Event{
		{ID: "a", Title: "AI Summit", Date: day(15), City: "Prague", Venue: "O2 Arena", Category: "Technology", Source: "cityevents"},
		{ID: "b", Title: "AI Summit 2024", Date: day(15), City: "Czech Republic", Venue: "O2 Arena", Category: "Technology", Source: "ticketfeed"},
		{ID: "c", Title: "Berlin Maker Faire", Date: day(15), City: "Berlin", Category: "Technology", Source: "cityevents"},
		{ID: "d", Title: "Mystery Event", Date: day(15), City: "", Category: "Technology", Source: "ticketfeed"},
	}

	eng := newTestEngine(t, &fakeProvider{name: "all", events: events})

	result, err := eng.Analyze(context.Background(), marchParams())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.EventsAnalyzed) != 1 {
		t.Fatalf("expected a single deduplicated local event, got %d: %+v",
			len(result.EventsAnalyzed), result.EventsAnalyzed)
	}
	if result.EventsAnalyzed[0].ID != "a" {
		t.Errorf("first-seen record should win, got %s", result.EventsAnalyzed[0].ID)
	}
}

func TestProgressCheckpointCadence(t *testing.T) {
	cases := []struct {
		i, total, batch int
		want            bool
	}{
		{0, 10, 5, false},
		{4, 10, 5, true},
		{5, 10, 5, false},
		{9, 10, 5, true}, // last candidate always publishes
		{6, 8, 5, false},
		{7, 8, 5, true},
		{0, 3, 1, true}, // batch of one publishes every candidate
		{1, 3, 0, true}, // non-positive batch degrades to one
	}

	for _, tc := range cases {
		if got := progressCheckpoint(tc.i, tc.total, tc.batch); got != tc.want {
			t.Errorf("progressCheckpoint(%d, %d, %d) = %v, want %v", tc.i, tc.total, tc.batch, got, tc.want)
		}
	}
}

func TestAnalyzeResultMetadata(t *testing.T) {
	eng := newTestEngine(t, &fakeProvider{name: "cityevents"})

	before := time.Now().UTC()
	result, err := eng.Analyze(context.Background(), marchParams())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.ID == "" {
		t.Error("result must carry a run ID")
	}
	if result.AnalyzedAt.Before(before) {
		t.Error("analysis timestamp must be set")
	}

	// Every scored candidate respects the score and tier bounds.
	for _, rec := range append(result.RecommendedDates, result.HighRiskDates...) {
		if rec.ConflictScore < 0 || rec.ConflictScore > 100 {
			t.Errorf("score %v out of bounds", rec.ConflictScore)
		}
	}
}
