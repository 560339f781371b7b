package proximity

import (
	"math"
	"testing"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		distanceKm float64
		want       Status
	}{
		{0, StatusArrived},
		{0.1, StatusArrived},
		{0.11, StatusNear},
		{1.0, StatusNear},
		{1.01, StatusApproaching},
		{3.0, StatusApproaching},
		{3.01, StatusFar},
		{25, StatusFar},
	}

	for _, tt := range tests {
		if got := Classify(tt.distanceKm); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.distanceKm, got, tt.want)
		}
	}
}

func TestStatusPriorityOrdering(t *testing.T) {
	ordered := []Status{StatusFar, StatusApproaching, StatusNear, StatusArrived}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].priority() <= ordered[i-1].priority() {
			t.Errorf("priority(%s) must exceed priority(%s)", ordered[i], ordered[i-1])
		}
	}
}

func TestEstimateEtaMinutes(t *testing.T) {
	// 2km at 30km/h is 4 minutes.
	if got := EstimateEtaMinutes(2, 0); math.Abs(got-4) > 1e-9 {
		t.Errorf("EstimateEtaMinutes(2, default) = %f, want 4", got)
	}
	// 10km at 60km/h is 10 minutes.
	if got := EstimateEtaMinutes(10, 60); math.Abs(got-10) > 1e-9 {
		t.Errorf("EstimateEtaMinutes(10, 60) = %f, want 10", got)
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(0.85); got != "850m" {
		t.Errorf("FormatDistance(0.85) = %q, want 850m", got)
	}
	if got := FormatDistance(2.5); got != "2.5km" {
		t.Errorf("FormatDistance(2.5) = %q, want 2.5km", got)
	}
}

func TestFormatEta(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0.5, "less than 1 minute"},
		{4.2, "4 minutes"},
		{59, "59 minutes"},
		{75, "1h 15m"},
	}
	for _, tt := range tests {
		if got := FormatEta(tt.minutes); got != tt.want {
			t.Errorf("FormatEta(%v) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
