package matching

import (
	"testing"

	"taxilink/internal/domain"
)

func TestFareForDuration(t *testing.T) {
	tests := []struct {
		name            string
		durationSeconds int
		want            float64
	}{
		{"thirty minutes", 1800, 45},
		{"exactly one block", 600, 15},
		{"just over one block", 601, 30},
		{"zero duration", 0, 15},
		{"negative duration", -300, 15},
		{"one hour", 3600, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FareForDuration(tt.durationSeconds); got != tt.want {
				t.Errorf("FareForDuration(%d) = R%.2f, want R%.2f", tt.durationSeconds, got, tt.want)
			}
		})
	}
}

func TestRouteFare(t *testing.T) {
	explicit := domain.Route{Fare: 22, EstimatedDurationSeconds: 1800}
	if got := RouteFare(explicit); got != 22 {
		t.Errorf("explicit fare must win, got R%.2f", got)
	}

	derived := domain.Route{EstimatedDurationSeconds: 1800}
	if got := RouteFare(derived); got != 45 {
		t.Errorf("derived fare = R%.2f, want R45", got)
	}

	minimum := domain.Route{}
	if got := RouteFare(minimum); got != 15 {
		t.Errorf("minimum fare = R%.2f, want R15", got)
	}
}
