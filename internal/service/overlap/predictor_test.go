package overlap

import (
	"context"
	"math"
	"testing"

	"datescout/internal/domain/event"
)

func predict(t *testing.T, planned, candidate event.Event) event.OverlapPrediction {
	t.Helper()
	pred, err := NewHeuristicPredictor().Predict(context.Background(), planned, candidate)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	return pred
}

func TestPredictSameCategory(t *testing.T) {
	planned := event.Event{Title: "DevConf", Category: "Technology"}
	candidate := event.Event{Title: "AI Summit", Category: "Technology"}

	pred := predict(t, planned, candidate)
	if pred.OverlapScore != sameCategoryBase {
		t.Errorf("score = %v, want %v", pred.OverlapScore, sameCategoryBase)
	}
	if len(pred.Reasoning) == 0 {
		t.Error("same-category prediction must explain itself")
	}
}

func TestPredictRelatedAndUnrelated(t *testing.T) {
	tests := []struct {
		name               string
		planned, candidate string
		want               float64
	}{
		{"business vs finance", "Business", "Finance", relatedCategoryBase},
		{"technology vs education", "Technology", "Education", relatedCategoryBase},
		{"asymmetric: education vs technology", "Education", "Technology", unrelatedBase},
		{"sports vs music", "Sports", "Music", unrelatedBase},
		{"case-insensitive", "technology", "BUSINESS", relatedCategoryBase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := predict(t,
				event.Event{Category: tt.planned},
				event.Event{Category: tt.candidate},
			)
			if pred.OverlapScore != tt.want {
				t.Errorf("score = %v, want %v", pred.OverlapScore, tt.want)
			}
		})
	}
}

func TestPredictBonusesStack(t *testing.T) {
	planned := event.Event{
		Category:    "Technology",
		Subcategory: "AI",
		Venue:       "O2 Arena",
		Attendees:   500,
	}
	candidate := event.Event{
		Category:    "Technology",
		Subcategory: "AI",
		Venue:       "o2 arena",
		Attendees:   1000,
	}

	pred := predict(t, planned, candidate)
	want := sameCategoryBase + subcategoryBonus + sameVenueBonus + sizeSimilarityMax*0.5
	if math.Abs(pred.OverlapScore-want) > 1e-9 {
		t.Errorf("score = %v, want %v", pred.OverlapScore, want)
	}
	if len(pred.Reasoning) != 4 {
		t.Errorf("expected one reason per contributing factor, got %v", pred.Reasoning)
	}
}

func TestPredictStaysInUnitRange(t *testing.T) {
	planned := event.Event{Category: "Music", Subcategory: "Jazz", Venue: "Rudolfinum", Attendees: 800}
	pred := predict(t, planned, planned)
	if pred.OverlapScore <= 0 || pred.OverlapScore > 1 {
		t.Errorf("score = %v, want within (0, 1]", pred.OverlapScore)
	}
}

func TestPredictIgnoresUnknownSizes(t *testing.T) {
	planned := event.Event{Category: "Technology", Attendees: 500}
	candidate := event.Event{Category: "Technology", Attendees: 0}

	pred := predict(t, planned, candidate)
	if pred.OverlapScore != sameCategoryBase {
		t.Errorf("unknown attendee count must not contribute, got %v", pred.OverlapScore)
	}
}

func TestPredictDeterministic(t *testing.T) {
	planned := event.Event{Category: "Business", Subcategory: "Fintech", Attendees: 300}
	candidate := event.Event{Category: "Finance", Subcategory: "Fintech", Attendees: 400}

	first := predict(t, planned, candidate)
	for i := 0; i < 5; i++ {
		again := predict(t, planned, candidate)
		if again.OverlapScore != first.OverlapScore {
			t.Fatalf("prediction not stable: %v vs %v", again.OverlapScore, first.OverlapScore)
		}
	}
}
