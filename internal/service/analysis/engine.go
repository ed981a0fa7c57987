// internal/service/analysis/engine.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"datescout/internal/domain/event"
	"datescout/internal/logger"
	"datescout/internal/service/dedup"
	"datescout/internal/service/location"
)

// Engine implements the event.Analyzer interface. It is stateless and
// request-scoped: no mutable data crosses Analyze invocations.
type Engine struct {
	providers  []event.Provider
	normalizer *location.Normalizer
	deduper    *dedup.Deduplicator
	scorer     *Scorer
	venueIntel event.VenueIntelligence
	eventBus   *nats.Conn
	cfg        Config
}

// NewEngine creates an analysis engine. venueIntel and eventBus may be nil;
// venue intelligence is then skipped and no progress events are published.
func NewEngine(
	providers []event.Provider,
	normalizer *location.Normalizer,
	deduper *dedup.Deduplicator,
	scorer *Scorer,
	venueIntel event.VenueIntelligence,
	eventBus *nats.Conn,
	cfg Config,
) *Engine {
	return &Engine{
		providers:  providers,
		normalizer: normalizer,
		deduper:    deduper,
		scorer:     scorer,
		venueIntel: venueIntel,
		eventBus:   eventBus,
		cfg:        cfg,
	}
}

// Analyze runs the full conflict analysis for the given parameters and
// returns ranked low-conflict and high-conflict date sets. Only parameter
// validation failures are fatal; provider and per-event scoring failures
// degrade the result without aborting it.
func (eng *Engine) Analyze(ctx context.Context, params event.AnalysisParams) (*event.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	eng.publish("started", runID, map[string]interface{}{
		"city":     params.City,
		"category": params.Category,
	})

	events, warnings := eng.fetchEvents(ctx, params)

	local := events[:0:0]
	for _, e := range events {
		if e.City == "" {
			continue
		}
		if eng.normalizer.BelongsTo(e, params.City) {
			local = append(local, e)
		}
	}

	local = eng.deduper.Dedupe(local)

	candidates := GenerateCandidates(params, eng.cfg)
	logger.Debug("analysis %s: %d events after filtering, %d candidates", runID, len(local), len(candidates))

	recommendations := make([]event.DateRecommendation, 0, len(candidates))
	for i, candidate := range candidates {
		recommendations = append(recommendations, eng.evaluateCandidate(ctx, candidate, local, params))

		if progressCheckpoint(i, len(candidates), eng.cfg.ProgressBatchSize) {
			eng.publish("progress."+runID, runID, map[string]interface{}{
				"evaluated": i + 1,
				"total":     len(candidates),
			})
		}
	}

	recommended, highRisk := Rank(recommendations, eng.cfg)

	result := &event.AnalysisResult{
		ID:               runID,
		Params:           params,
		RecommendedDates: recommended,
		HighRiskDates:    highRisk,
		EventsAnalyzed:   local,
		Warnings:         warnings,
		AnalyzedAt:       time.Now().UTC(),
	}

	eng.publish("completed."+runID, runID, map[string]interface{}{
		"recommended": len(recommended),
		"high_risk":   len(highRisk),
		"events":      len(local),
	})

	return result, nil
}

// fetchEvents fans out to all providers concurrently. Each call is
// independent: a failed or timed-out provider contributes zero events and
// a warning, and the others are neither cancelled nor blocked.
func (eng *Engine) fetchEvents(ctx context.Context, params event.AnalysisParams) ([]event.Event, []string) {
	var (
		mu       sync.Mutex
		events   []event.Event
		warnings []string
		wg       sync.WaitGroup
	)

	for _, provider := range eng.providers {
		wg.Add(1)
		go func(p event.Provider) {
			defer wg.Done()

			fetched, err := p.Fetch(ctx, params.City, params.DateRangeStart, params.DateRangeEnd, params.Category)
			if err != nil {
				logger.Warn("provider %s degraded: %v", p.Name(), err)
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("source %s unavailable: %v", p.Name(), err))
				mu.Unlock()
				return
			}

			mu.Lock()
			events = append(events, fetched...)
			mu.Unlock()
		}(provider)
	}

	wg.Wait()
	return events, warnings
}

// evaluateCandidate matches, scores and classifies a single candidate
func (eng *Engine) evaluateCandidate(ctx context.Context, candidate event.DateCandidate, events []event.Event, params event.AnalysisParams) event.DateRecommendation {
	competing := MatchCompetingEvents(candidate, events, params)
	scored := eng.scorer.Score(ctx, competing, params, candidate)

	rec := event.DateRecommendation{
		StartDate:       candidate.StartDate,
		EndDate:         candidate.EndDate,
		ConflictScore:   scored.Score,
		RiskLevel:       ClassifyRisk(scored.Score, eng.cfg),
		CompetingEvents: competing,
		Reasons:         BuildReasons(competing, scored.Score, eng.cfg),
	}

	if params.AdvancedAnalysis && len(scored.Overlap) > 0 {
		rec.Overlap = summarizeOverlap(scored.Overlap, eng.cfg)
	}

	if params.AdvancedAnalysis && params.Venue != "" && eng.venueIntel != nil {
		report, err := eng.venueIntel.Analyze(ctx, params.Venue, candidate.StartDate, params.ExpectedAttendees)
		if err != nil {
			logger.Warn("venue intelligence for %q failed: %v", params.Venue, err)
		} else {
			rec.Venue = &event.VenueSummary{
				ConflictScore:       clamp(report.ConflictScore, 0, 1),
				CapacityUtilization: report.CapacityUtilization,
				PricingImpact:       report.PricingImpact,
				Recommendations:     report.Recommendations,
			}
		}
	}

	return rec
}

// progressCheckpoint reports whether a progress event is due after
// evaluating candidate i of total: every batch-th candidate and always the
// last one
func progressCheckpoint(i, total, batch int) bool {
	if batch < 1 {
		batch = 1
	}
	return (i+1)%batch == 0 || i == total-1
}

// summarizeOverlap aggregates per-event overlap assessments
func summarizeOverlap(assessments []event.OverlapAssessment, cfg Config) *event.OverlapSummary {
	var sum float64
	var high []event.OverlapAssessment
	var reasoning []string

	for _, a := range assessments {
		sum += a.OverlapScore
		if a.OverlapScore >= cfg.HighOverlapThreshold {
			high = append(high, a)
			if len(a.Reasoning) > 0 && len(reasoning) < cfg.MaxReasons {
				reasoning = append(reasoning, fmt.Sprintf("%s: %s", a.EventTitle, a.Reasoning[0]))
			}
		}
	}

	return &event.OverlapSummary{
		AverageOverlap:    sum / float64(len(assessments)),
		HighOverlapEvents: high,
		Reasoning:         reasoning,
	}
}

// publish emits an analysis lifecycle event on the bus. Publishing is best
// effort: a failure is logged and the analysis proceeds.
func (eng *Engine) publish(subject, runID string, payload map[string]interface{}) {
	if eng.eventBus == nil {
		return
	}

	payload["run_id"] = runID
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshaling %s event: %v", subject, err)
		return
	}

	topic := fmt.Sprintf("%s.%s", eng.cfg.EventsTopic, subject)
	if err := eng.eventBus.Publish(topic, data); err != nil {
		logger.Warn("publishing %s event: %v", topic, err)
	}
}
