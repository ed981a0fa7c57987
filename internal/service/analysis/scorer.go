// internal/service/analysis/scorer.go

package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"datescout/internal/domain/event"
	"datescout/internal/logger"
)

// Scorer computes a 0-100 conflict score for a candidate date range from
// its competing events, optionally adjusted by an audience-overlap signal.
type Scorer struct {
	cfg      Config
	primary  event.OverlapPredictor
	fallback event.OverlapPredictor
}

// NewScorer creates a scorer. primary may be nil when no external overlap
// predictor is configured; fallback must be the cheap deterministic
// estimator and may also be nil to disable overlap adjustment entirely.
func NewScorer(cfg Config, primary, fallback event.OverlapPredictor) *Scorer {
	return &Scorer{
		cfg:      cfg,
		primary:  primary,
		fallback: fallback,
	}
}

// ScoreResult is the scorer's output for one candidate
type ScoreResult struct {
	Score   float64
	Overlap []event.OverlapAssessment
}

// Score computes the conflict score for a candidate. The top competitors
// by significance are scored in detail; the remainder contribute a flat
// amount each. With advanced analysis enabled, each detailed contribution
// is multiplied by an audience-overlap factor obtained within a deadline,
// falling back to the cheap estimator at reduced weight on timeout or
// error. The final value is clamped to [0,100].
func (s *Scorer) Score(ctx context.Context, competing []event.Event, params event.AnalysisParams, candidate event.DateCandidate) ScoreResult {
	if len(competing) == 0 {
		return ScoreResult{}
	}

	ranked := rankBySignificance(competing, s.cfg)

	detailed := ranked
	var tail []event.Event
	if len(ranked) > s.cfg.TopCompetitors {
		detailed = ranked[:s.cfg.TopCompetitors]
		tail = ranked[s.cfg.TopCompetitors:]
	}

	planned := plannedEvent(params, candidate)

	var total float64
	var assessments []event.OverlapAssessment
	for _, e := range detailed {
		contribution, assessment := s.scoreEvent(ctx, e, params, planned)
		total += contribution
		if assessment != nil {
			assessments = append(assessments, *assessment)
		}
	}

	total += float64(len(tail)) * s.cfg.TailContribution

	switch {
	case params.ExpectedAttendees > s.cfg.LargeAttendeeThreshold:
		total *= s.cfg.LargeAttendeeMultiplier
	case params.ExpectedAttendees > s.cfg.MediumAttendeeThreshold:
		total *= s.cfg.MediumAttendeeMultiplier
	}

	return ScoreResult{
		Score:   clamp(total, 0, 100),
		Overlap: assessments,
	}
}

// scoreEvent computes one competing event's contribution. A failure while
// scoring a single event is isolated: the contribution is dropped and
// scoring continues with the remaining events.
func (s *Scorer) scoreEvent(ctx context.Context, e event.Event, params event.AnalysisParams, planned event.Event) (contribution float64, assessment *event.OverlapAssessment) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("skipping contribution of event %q: %v", e.Title, r)
			contribution = 0
			assessment = nil
		}
	}()

	contribution = s.cfg.BaseContribution
	if strings.EqualFold(e.Category, params.Category) {
		contribution += s.cfg.CategoryBonus
	}
	if e.Venue != "" {
		contribution += s.cfg.VenueBonus
	}
	if e.ImageURL != "" {
		contribution += s.cfg.ImageBonus
	}
	if len(e.Description) > s.cfg.LongDescriptionLength {
		contribution += s.cfg.DescriptionBonus
	}

	if params.AdvancedAnalysis {
		overlap, weight, a := s.predictOverlap(ctx, planned, e)
		contribution *= 1 + overlap*weight
		assessment = a
	}

	return contribution, assessment
}

// predictOverlap obtains an audience-overlap estimate for one competing
// event. The primary predictor runs under an explicit deadline; on timeout
// or error the cheap fallback estimator is used at reduced weight. If the
// fallback fails too, the contribution proceeds without an overlap
// multiplier.
func (s *Scorer) predictOverlap(ctx context.Context, planned, e event.Event) (float64, float64, *event.OverlapAssessment) {
	if s.primary != nil {
		prediction, err := s.predictWithDeadline(ctx, planned, e)
		if err == nil {
			return clamp(prediction.OverlapScore, 0, 1), s.cfg.OverlapPrimaryWeight, &event.OverlapAssessment{
				EventID:      e.ID,
				EventTitle:   e.Title,
				OverlapScore: clamp(prediction.OverlapScore, 0, 1),
				Reasoning:    prediction.Reasoning,
			}
		}
		logger.Warn("primary overlap predictor failed for %q: %v", e.Title, err)
	}

	if s.fallback != nil {
		prediction, err := s.fallback.Predict(ctx, planned, e)
		if err == nil {
			return clamp(prediction.OverlapScore, 0, 1), s.cfg.OverlapFallbackWeight, &event.OverlapAssessment{
				EventID:      e.ID,
				EventTitle:   e.Title,
				OverlapScore: clamp(prediction.OverlapScore, 0, 1),
				Reasoning:    prediction.Reasoning,
				Fallback:     true,
			}
		}
		logger.Warn("fallback overlap estimate failed for %q: %v", e.Title, err)
	}

	return 0, 0, nil
}

// predictWithDeadline runs the primary predictor bounded by the configured
// timeout. The deadline is explicit: a slow predictor cannot stall the
// scoring pass beyond it. The predictor runs on its own goroutine, so a
// panic inside it must be recovered here and surfaced as an error; the
// per-event recover in scoreEvent cannot see it.
func (s *Scorer) predictWithDeadline(ctx context.Context, planned, e event.Event) (event.OverlapPrediction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OverlapTimeout)
	defer cancel()

	type outcome struct {
		prediction event.OverlapPrediction
		err        error
	}

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("predictor panic: %v", r)}
			}
		}()
		prediction, err := s.primary.Predict(ctx, planned, e)
		ch <- outcome{prediction: prediction, err: err}
	}()

	select {
	case out := <-ch:
		return out.prediction, out.err
	case <-ctx.Done():
		return event.OverlapPrediction{}, ctx.Err()
	}
}

// rankBySignificance orders competitors by a venue/image/description
// heuristic, most significant first. The sort is stable so equally
// significant events keep their input order.
func rankBySignificance(events []event.Event, cfg Config) []event.Event {
	ranked := make([]event.Event, len(events))
	copy(ranked, events)

	sort.SliceStable(ranked, func(i, j int) bool {
		return significance(ranked[i], cfg) > significance(ranked[j], cfg)
	})

	return ranked
}

func significance(e event.Event, cfg Config) int {
	score := 0
	if e.Venue != "" {
		score += cfg.SignificanceVenueWeight
	}
	if e.ImageURL != "" {
		score += cfg.SignificanceImageWeight
	}
	if len(e.Description) > cfg.LongDescriptionLength {
		score += cfg.SignificanceDescriptionWeight
	}
	return score
}

// plannedEvent builds the organizer's hypothetical event for overlap
// prediction against a candidate range
func plannedEvent(params event.AnalysisParams, candidate event.DateCandidate) event.Event {
	return event.Event{
		Title:       "Planned " + params.Category + " event",
		City:        params.City,
		Venue:       params.Venue,
		Category:    params.Category,
		Subcategory: params.Subcategory,
		Attendees:   params.ExpectedAttendees,
		Date:        candidate.StartDate,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
