// internal/service/analysis/risk.go

package analysis

import (
	"fmt"
	"sort"

	"datescout/internal/domain/event"
)

// ClassifyRisk buckets a conflict score into a risk tier. The boundaries
// are inclusive on the lower tier: a score of exactly RiskLowMax is Low
// and exactly RiskMediumMax is Medium.
func ClassifyRisk(score float64, cfg Config) event.RiskLevel {
	switch {
	case score <= cfg.RiskLowMax:
		return event.RiskLow
	case score <= cfg.RiskMediumMax:
		return event.RiskMedium
	default:
		return event.RiskHigh
	}
}

// BuildReasons produces up to MaxReasons human-readable justification
// lines for a candidate: category clusters among the competitors, up to
// two named high-profile overlaps, then a qualitative line for elevated
// scores.
func BuildReasons(competing []event.Event, score float64, cfg Config) []string {
	if len(competing) == 0 {
		return []string{"No major competing events found"}
	}

	var reasons []string
	full := func() bool { return len(reasons) >= cfg.MaxReasons }

	counts := make(map[string]int)
	for _, e := range competing {
		counts[e.Category]++
	}
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	// Largest cluster first; ties alphabetical for determinism.
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	for _, category := range categories {
		if full() {
			return reasons
		}
		reasons = append(reasons, fmt.Sprintf("%d %s events during period", counts[category], category))
	}

	named := 0
	for _, e := range competing {
		if full() || named >= 2 {
			break
		}
		if e.Venue != "" && e.ImageURL != "" {
			reasons = append(reasons, fmt.Sprintf("High-profile event: %s at %s", e.Title, e.Venue))
			named++
		}
	}

	if !full() {
		switch {
		case score > 70:
			reasons = append(reasons, "High competition for audience attention")
		case score > 40:
			reasons = append(reasons, "Moderate competition expected")
		}
	}

	return reasons
}

// Rank selects the final recommendation sets from all scored candidates.
// Recommended dates are the lowest-scoring Low-risk candidates in
// ascending order. High-risk dates are the highest-scoring High-risk
// candidates in descending order, backfilled with Medium-risk candidates
// above the backfill threshold when there are too few.
func Rank(recommendations []event.DateRecommendation, cfg Config) (recommended, highRisk []event.DateRecommendation) {
	ascending := make([]event.DateRecommendation, len(recommendations))
	copy(ascending, recommendations)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].ConflictScore < ascending[j].ConflictScore
	})

	for _, rec := range ascending {
		if len(recommended) >= cfg.MaxRecommendations {
			break
		}
		if rec.RiskLevel == event.RiskLow {
			recommended = append(recommended, rec)
		}
	}

	var high, medium []event.DateRecommendation
	for _, rec := range ascending {
		switch rec.RiskLevel {
		case event.RiskHigh:
			high = append(high, rec)
		case event.RiskMedium:
			if rec.ConflictScore > cfg.BackfillThreshold {
				medium = append(medium, rec)
			}
		}
	}
	descending := func(recs []event.DateRecommendation) {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].ConflictScore > recs[j].ConflictScore
		})
	}
	descending(high)
	descending(medium)

	highRisk = high
	if len(highRisk) > cfg.MaxHighRisk {
		highRisk = highRisk[:cfg.MaxHighRisk]
	}
	for _, rec := range medium {
		if len(highRisk) >= cfg.MaxHighRisk {
			break
		}
		highRisk = append(highRisk, rec)
	}

	return recommended, highRisk
}
