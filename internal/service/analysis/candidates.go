// internal/service/analysis/candidates.go

package analysis

import (
	"math"
	"time"

	"datescout/internal/domain/event"
)

// Config contains the tunable constants of the analysis engine. The
// heuristic weights live here rather than in the algorithms so they can be
// adjusted per deployment.
type Config struct {
	// Candidate generation
	OffsetDays  int
	SweepStride int

	// Competing-event scoring
	TopCompetitors                int
	SignificanceVenueWeight       int
	SignificanceImageWeight       int
	SignificanceDescriptionWeight int
	BaseContribution              float64
	CategoryBonus                 float64
	VenueBonus                    float64
	ImageBonus                    float64
	DescriptionBonus              float64
	TailContribution              float64
	LongDescriptionLength         int

	// Attendee-size multiplier
	LargeAttendeeThreshold   int
	MediumAttendeeThreshold  int
	LargeAttendeeMultiplier  float64
	MediumAttendeeMultiplier float64

	// Risk classification and ranking
	RiskLowMax         float64
	RiskMediumMax      float64
	BackfillThreshold  float64
	MaxRecommendations int
	MaxHighRisk        int
	MaxReasons         int

	// Audience overlap
	OverlapTimeout        time.Duration
	OverlapPrimaryWeight  float64
	OverlapFallbackWeight float64
	HighOverlapThreshold  float64

	// Event publishing
	EventsTopic       string
	ProgressBatchSize int
}

// DefaultConfig returns the reference constants of the analysis heuristics
func DefaultConfig() Config {
	return Config{
		OffsetDays:                    7,
		SweepStride:                   3,
		TopCompetitors:                5,
		SignificanceVenueWeight:       2,
		SignificanceImageWeight:       1,
		SignificanceDescriptionWeight: 1,
		BaseContribution:              20,
		CategoryBonus:                 30,
		VenueBonus:                    15,
		ImageBonus:                    10,
		DescriptionBonus:              5,
		TailContribution:              15,
		LongDescriptionLength:         50,
		LargeAttendeeThreshold:        1000,
		MediumAttendeeThreshold:       500,
		LargeAttendeeMultiplier:       1.2,
		MediumAttendeeMultiplier:      1.1,
		RiskLowMax:                    30,
		RiskMediumMax:                 60,
		BackfillThreshold:             50,
		MaxRecommendations:            3,
		MaxHighRisk:                   3,
		MaxReasons:                    3,
		OverlapTimeout:                5 * time.Second,
		OverlapPrimaryWeight:          0.5,
		OverlapFallbackWeight:         0.3,
		HighOverlapThreshold:          0.6,
		EventsTopic:                   "analysis",
		ProgressBatchSize:             5,
	}
}

// GenerateCandidates produces the set of date ranges to evaluate for the
// given parameters. The first pass shifts the preferred start by
// -OffsetDays..+OffsetDays; the second sweeps the whole analysis window at
// SweepStride-day steps. Both passes keep the preferred duration and only
// emit ranges fully inside the analysis window. The output is
// deterministic and contains no duplicate (start, end) pairs.
func GenerateCandidates(params event.AnalysisParams, cfg Config) []event.DateCandidate {
	prefStart := event.Day(params.StartDate)
	prefEnd := event.Day(params.EndDate)
	windowStart := event.Day(params.DateRangeStart)
	windowEnd := event.Day(params.DateRangeEnd)

	duration := int(math.Ceil(prefEnd.Sub(prefStart).Hours() / 24))

	var candidates []event.DateCandidate
	seen := make(map[string]bool)

	add := func(start time.Time) {
		end := start.AddDate(0, 0, duration)
		if start.Before(windowStart) || end.After(windowEnd) {
			return
		}
		key := start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, event.DateCandidate{StartDate: start, EndDate: end})
	}

	for offset := -cfg.OffsetDays; offset <= cfg.OffsetDays; offset++ {
		add(prefStart.AddDate(0, 0, offset))
	}

	stride := cfg.SweepStride
	if stride < 1 {
		stride = 1
	}
	for d := windowStart; !d.AddDate(0, 0, duration).After(windowEnd); d = d.AddDate(0, 0, stride) {
		add(d)
	}

	return candidates
}
