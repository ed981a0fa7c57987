// internal/domain/event/collaborators.go

package event

import (
	"context"
	"time"
)

// Provider defines the interface for an external event-data source.
// Implementations own pagination, rate limiting and authentication; the
// engine only sees normalized Event records or a single error per fetch.
type Provider interface {
	// Name returns the source identifier stamped on fetched events
	Name() string

	// Fetch returns normalized events for a city within a date range.
	// Category may be empty, in which case all categories are returned.
	Fetch(ctx context.Context, city string, from, to time.Time, category string) ([]Event, error)
}

// OverlapPrediction is the result of an audience-overlap estimate
type OverlapPrediction struct {
	OverlapScore float64
	Reasoning    []string
}

// OverlapPredictor estimates the shared-audience fraction between the
// planned event and a competing event
type OverlapPredictor interface {
	// Predict returns an overlap score in [0,1] with reasoning
	Predict(ctx context.Context, planned Event, candidate Event) (OverlapPrediction, error)
}

// VenueReport is the venue-intelligence verdict for a venue on a date
type VenueReport struct {
	ConflictScore       float64
	CapacityUtilization float64
	PricingImpact       string
	Recommendations     []string
}

// VenueIntelligence analyzes venue-level conditions for a planned event
type VenueIntelligence interface {
	// Analyze inspects a venue on a given date for an expected audience size
	Analyze(ctx context.Context, venueName string, date time.Time, expectedAttendees int) (VenueReport, error)
}

// Analyzer is the engine's single public operation
type Analyzer interface {
	// Analyze produces ranked low-conflict and high-conflict date sets for
	// the given parameters
	Analyze(ctx context.Context, params AnalysisParams) (*AnalysisResult, error)
}
