package event

import (
	"errors"
	"fmt"
	"time"
)

// RiskLevel buckets a conflict score into a coarse risk tier
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Event represents a normalized event record from any source.
// Records are immutable once produced by a provider's normalization boundary.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        time.Time  `json:"date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	City        string     `json:"city"`
	Venue       string     `json:"venue,omitempty"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Attendees   int        `json:"attendees,omitempty"`
	Source      string     `json:"source"`
	URL         string     `json:"url,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AnalysisParams describes one analysis request
type AnalysisParams struct {
	City              string    `json:"city"`
	Category          string    `json:"category"`
	Subcategory       string    `json:"subcategory,omitempty"`
	ExpectedAttendees int       `json:"expected_attendees"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	DateRangeStart    time.Time `json:"date_range_start"`
	DateRangeEnd      time.Time `json:"date_range_end"`
	Venue             string    `json:"venue,omitempty"`
	AdvancedAnalysis  bool      `json:"advanced_analysis"`
}

// ErrInvalidParams marks parameter validation failures; these are fatal to
// the analysis call, unlike provider or scoring failures.
var ErrInvalidParams = errors.New("invalid analysis params")

// Validate checks the request invariants.
func (p AnalysisParams) Validate() error {
	if p.City == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidParams)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidParams)
	}
	if p.ExpectedAttendees <= 0 {
		return fmt.Errorf("%w: expected attendees must be positive", ErrInvalidParams)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: preferred dates are required", ErrInvalidParams)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: preferred end date precedes start date", ErrInvalidParams)
	}
	if p.DateRangeStart.IsZero() || p.DateRangeEnd.IsZero() {
		return fmt.Errorf("%w: analysis window is required", ErrInvalidParams)
	}
	if p.DateRangeEnd.Before(p.DateRangeStart) {
		return fmt.Errorf("%w: analysis window end precedes start", ErrInvalidParams)
	}
	return nil
}

// DateCandidate is a trial (start, end) pair under evaluation.
// No two candidates in one run share the same pair.
type DateCandidate struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// OverlapAssessment is the audience-overlap verdict for one competing event
type OverlapAssessment struct {
	EventID      string   `json:"event_id"`
	EventTitle   string   `json:"event_title"`
	OverlapScore float64  `json:"overlap_score"`
	Reasoning    []string `json:"reasoning,omitempty"`
	Fallback     bool     `json:"fallback,omitempty"`
}

// OverlapSummary aggregates per-event overlap assessments for a candidate
type OverlapSummary struct {
	AverageOverlap    float64             `json:"average_overlap"`
	HighOverlapEvents []OverlapAssessment `json:"high_overlap_events,omitempty"`
	Reasoning         []string            `json:"reasoning,omitempty"`
}

// VenueSummary is the venue-intelligence verdict for a candidate
type VenueSummary struct {
	ConflictScore       float64  `json:"conflict_score"`
	CapacityUtilization float64  `json:"capacity_utilization"`
	PricingImpact       string   `json:"pricing_impact"`
	Recommendations     []string `json:"recommendations,omitempty"`
}

// DateRecommendation is the scored verdict for one candidate.
// Created once per candidate per run, never mutated afterwards.
type DateRecommendation struct {
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	ConflictScore   float64         `json:"conflict_score"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	CompetingEvents []Event         `json:"competing_events"`
	Reasons         []string        `json:"reasons"`
	Overlap         *OverlapSummary `json:"overlap,omitempty"`
	Venue           *VenueSummary   `json:"venue,omitempty"`
}

// AnalysisResult is the full output of one analysis run
type AnalysisResult struct {
	ID               string               `json:"id"`
	Params           AnalysisParams       `json:"params"`
	RecommendedDates []DateRecommendation `json:"recommended_dates"`
	HighRiskDates    []DateRecommendation `json:"high_risk_dates"`
	EventsAnalyzed   []Event              `json:"events_analyzed"`
	Warnings         []string             `json:"warnings,omitempty"`
	AnalyzedAt       time.Time            `json:"analyzed_at"`
}

// Day truncates a time to day granularity in UTC. All date comparisons in
// the engine happen at this granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day (UTC)
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
