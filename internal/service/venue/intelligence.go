// internal/service/venue/intelligence.go

package venue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"datescout/internal/domain/event"
)

// venueCapacities holds known capacities for major venues. Unknown venues
// fall back to the configured default.
var venueCapacities = map[string]int{
	"o2 arena":               18000,
	"o2 universum":           4500,
	"forum karlin":           3000,
	"prague congress centre": 9300,
	"rudolfinum":             1200,
	"lucerna great hall":     2500,
	"the o2":                 20000,
	"excel london":           68000,
	"wembley stadium":        90000,
	"royal albert hall":      5272,
	"messe berlin":           30000,
	"austria center vienna":  22800,
	"wiener stadthalle":      16000,
	"accor arena":            20300,
}

// Config contains venue-intelligence configuration
type Config struct {
	DefaultCapacity         int
	HighUtilizationFraction float64
}

// Service is a heuristic venue intelligence implementation backed by a
// static capacity table
type Service struct {
	cfg Config
}

// NewService creates a venue intelligence service
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Analyze inspects a venue on a given date for an expected audience size
func (s *Service) Analyze(ctx context.Context, venueName string, date time.Time, expectedAttendees int) (event.VenueReport, error) {
	if venueName == "" {
		return event.VenueReport{}, fmt.Errorf("venue name is required")
	}

	capacity := s.cfg.DefaultCapacity
	known := false
	if c, ok := venueCapacities[normalizeVenue(venueName)]; ok {
		capacity = c
		known = true
	}
	if capacity <= 0 {
		capacity = 1000
	}

	utilization := float64(expectedAttendees) / float64(capacity)

	var pricing string
	var recommendations []string
	switch {
	case utilization > 1:
		pricing = "premium"
		recommendations = append(recommendations,
			fmt.Sprintf("expected attendance exceeds %s capacity (%d); consider a larger venue", venueName, capacity))
	case utilization > s.cfg.HighUtilizationFraction:
		pricing = "premium"
		recommendations = append(recommendations, "venue will be near capacity; book early and expect peak rates")
	case utilization > 0.4:
		pricing = "standard"
	default:
		pricing = "favorable"
		recommendations = append(recommendations,
			fmt.Sprintf("venue is oversized for %d attendees; negotiate or consider a smaller room", expectedAttendees))
	}

	// Weekend dates compete harder for large venues.
	conflict := utilization * 0.6
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		conflict += 0.2
		recommendations = append(recommendations, "weekend date increases venue demand")
	}
	if !known {
		recommendations = append(recommendations, "capacity estimated; verify with the venue directly")
	}
	if conflict > 1 {
		conflict = 1
	}

	return event.VenueReport{
		ConflictScore:       conflict,
		CapacityUtilization: utilization,
		PricingImpact:       pricing,
		Recommendations:     recommendations,
	}, nil
}

func normalizeVenue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
