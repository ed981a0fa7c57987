// internal/service/overlap/predictor.go

package overlap

import (
	"context"
	"fmt"
	"strings"

	"datescout/internal/domain/event"
)

// Heuristic weights for the deterministic overlap estimate.
const (
	sameCategoryBase    = 0.5
	relatedCategoryBase = 0.25
	unrelatedBase       = 0.05
	subcategoryBonus    = 0.15
	sameVenueBonus      = 0.1
	sizeSimilarityMax   = 0.2
)

// relatedCategories lists category pairs whose audiences partially overlap
var relatedCategories = map[string][]string{
	"Business":      {"Finance", "Marketing", "Technology"},
	"Finance":       {"Business"},
	"Technology":    {"Business", "Education"},
	"Music":         {"Entertainment", "Culture"},
	"Entertainment": {"Music", "Culture"},
	"Culture":       {"Arts", "Music"},
	"Arts":          {"Culture"},
}

// HeuristicPredictor is the low-cost deterministic audience-overlap
// estimator. It backs the primary predictor whenever that one times out or
// errors, and can serve as the only predictor in minimal deployments.
type HeuristicPredictor struct{}

// NewHeuristicPredictor creates the fallback estimator
func NewHeuristicPredictor() *HeuristicPredictor {
	return &HeuristicPredictor{}
}

// Predict estimates the shared-audience fraction between the planned event
// and a candidate competitor. The estimate is a pure function of the two
// events.
func (p *HeuristicPredictor) Predict(ctx context.Context, planned, candidate event.Event) (event.OverlapPrediction, error) {
	var score float64
	var reasoning []string

	switch {
	case strings.EqualFold(planned.Category, candidate.Category):
		score = sameCategoryBase
		reasoning = append(reasoning, fmt.Sprintf("both events target the %s audience", planned.Category))
	case isRelated(planned.Category, candidate.Category):
		score = relatedCategoryBase
		reasoning = append(reasoning, fmt.Sprintf("%s and %s audiences partially overlap", planned.Category, candidate.Category))
	default:
		score = unrelatedBase
		reasoning = append(reasoning, "audiences are largely distinct")
	}

	if planned.Subcategory != "" && strings.EqualFold(planned.Subcategory, candidate.Subcategory) {
		score += subcategoryBonus
		reasoning = append(reasoning, fmt.Sprintf("shared %s focus", planned.Subcategory))
	}

	if planned.Venue != "" && strings.EqualFold(planned.Venue, candidate.Venue) {
		score += sameVenueBonus
		reasoning = append(reasoning, "same venue draws the same local crowd")
	}

	if similarity := sizeSimilarity(planned.Attendees, candidate.Attendees); similarity > 0 {
		score += sizeSimilarityMax * similarity
		reasoning = append(reasoning, "comparable event sizes")
	}

	if score > 1 {
		score = 1
	}

	return event.OverlapPrediction{
		OverlapScore: score,
		Reasoning:    reasoning,
	}, nil
}

func isRelated(a, b string) bool {
	for key, related := range relatedCategories {
		if !strings.EqualFold(key, a) {
			continue
		}
		for _, r := range related {
			if strings.EqualFold(r, b) {
				return true
			}
		}
	}
	return false
}

// sizeSimilarity returns min/max of the two attendee counts, or 0 when
// either is unknown
func sizeSimilarity(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}
