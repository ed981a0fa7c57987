package venue

import (
	"context"
	"math"
	"testing"
	"time"
)

func testService() *Service {
	return NewService(Config{
		DefaultCapacity:         1000,
		HighUtilizationFraction: 0.8,
	})
}

// 2024-03-13 is a Wednesday, 2024-03-16 a Saturday.
var (
	wednesday = time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
)

func TestAnalyzeRequiresVenueName(t *testing.T) {
	if _, err := testService().Analyze(context.Background(), "", wednesday, 500); err == nil {
		t.Fatal("expected error for empty venue name")
	}
}

func TestAnalyzeKnownVenue(t *testing.T) {
	// O2 Arena capacity 18000; 9000 attendees is 50% utilization.
	report, err := testService().Analyze(context.Background(), "O2 Arena", wednesday, 9000)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(report.CapacityUtilization-0.5) > 1e-9 {
		t.Errorf("utilization = %v, want 0.5", report.CapacityUtilization)
	}
	if report.PricingImpact != "standard" {
		t.Errorf("pricing = %q, want standard", report.PricingImpact)
	}
	if math.Abs(report.ConflictScore-0.3) > 1e-9 {
		t.Errorf("conflict = %v, want 0.3", report.ConflictScore)
	}
	for _, r := range report.Recommendations {
		if r == "capacity estimated; verify with the venue directly" {
			t.Error("known venue must not carry the estimated-capacity caveat")
		}
	}
}

func TestAnalyzeUnknownVenueUsesDefault(t *testing.T) {
	report, err := testService().Analyze(context.Background(), "Community Hall", wednesday, 500)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(report.CapacityUtilization-0.5) > 1e-9 {
		t.Errorf("utilization = %v, want 0.5 against default capacity", report.CapacityUtilization)
	}

	found := false
	for _, r := range report.Recommendations {
		if r == "capacity estimated; verify with the venue directly" {
			found = true
		}
	}
	if !found {
		t.Error("unknown venue should carry the estimated-capacity caveat")
	}
}

func TestAnalyzePricingTiers(t *testing.T) {
	tests := []struct {
		name      string
		attendees int
		want      string
	}{
		{"oversized venue", 200, "favorable"},
		{"comfortable fit", 600, "standard"},
		{"near capacity", 900, "premium"},
		{"over capacity", 1500, "premium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := testService().Analyze(context.Background(), "Community Hall", wednesday, tt.attendees)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if report.PricingImpact != tt.want {
				t.Errorf("pricing = %q, want %q", report.PricingImpact, tt.want)
			}
		})
	}
}

func TestAnalyzeWeekendRaisesConflict(t *testing.T) {
	svc := testService()

	weekday, err := svc.Analyze(context.Background(), "Rudolfinum", wednesday, 600)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	weekend, err := svc.Analyze(context.Background(), "Rudolfinum", saturday, 600)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if math.Abs(weekend.ConflictScore-weekday.ConflictScore-0.2) > 1e-9 {
		t.Errorf("weekend conflict %v should exceed weekday %v by 0.2",
			weekend.ConflictScore, weekday.ConflictScore)
	}
}

func TestAnalyzeConflictClamped(t *testing.T) {
	report, err := testService().Analyze(context.Background(), "Community Hall", saturday, 5000)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.ConflictScore != 1 {
		t.Errorf("conflict = %v, want clamp to 1", report.ConflictScore)
	}
}

func TestNormalizeVenue(t *testing.T) {
	if got := normalizeVenue("  O2   Arena "); got != "o2 arena" {
		t.Errorf("normalizeVenue = %q", got)
	}
}
