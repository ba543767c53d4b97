package geo

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/platform/resilience"
)

func TestHaversine(t *testing.T) {
	t.Parallel()

	calgary := location.Location{Latitude: 51.0447, Longitude: -114.0719}
	edmonton := location.Location{Latitude: 53.5461, Longitude: -113.4938}

	got, err := Haversine(calgary, edmonton)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-280) > 5 {
		t.Fatalf("expected about 280km, got %.1f", got)
	}

	if same, _ := Haversine(calgary, calgary); same != 0 {
		t.Fatalf("expected zero distance, got %v", same)
	}
	if _, err := Haversine(calgary, location.Location{PostalCode: "T2P"}); !errors.Is(err, ErrNoCoordinates) {
		t.Fatalf("expected ErrNoCoordinates, got %v", err)
	}
}

func TestPostalResolver(t *testing.T) {
	t.Parallel()

	r := NewPostalResolver(map[string]Centroid{
		"t2p": {Latitude: 51.0478, Longitude: -114.0593},
		"T3A": {Latitude: 51.1164, Longitude: -114.1595},
	})

	d, err := r.Distance(location.Location{PostalCode: "T2P 1J9"}, location.Location{PostalCode: "t3a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d <= 5 || d >= 15 {
		t.Fatalf("unexpected distance %.2f", d)
	}

	mixed, err := r.Distance(location.Location{Latitude: 51.0478, Longitude: -114.0593}, location.Location{PostalCode: "T2P"})
	if err != nil || mixed > 0.001 {
		t.Fatalf("coordinates and centroid should coincide: %v %v", mixed, err)
	}

	if _, err := r.Distance(location.Location{PostalCode: "X0X"}, location.Location{PostalCode: "T2P"}); !errors.Is(err, ErrUnknownPostalCode) {
		t.Fatalf("expected ErrUnknownPostalCode, got %v", err)
	}
}

func TestGuardOpensAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	failing := func(_, _ location.Location) (float64, error) {
		calls++
		return 0, errors.New("provider down")
	}
	guarded := Guard(failing, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}))

	for i := 0; i < 2; i++ {
		if _, err := guarded(location.Location{}, location.Location{}); err == nil {
			t.Fatalf("expected provider error")
		}
	}
	if _, err := guarded(location.Location{}, location.Location{}); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected provider to be skipped once open, calls=%d", calls)
	}
}
