package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/synced-sports/internal/config"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		HTTPAddr:                   ":0",
		StoreDriver:                config.StoreMemory,
		CORSAllowedOrigins:         []string{"*"},
		MetricsEnabled:             true,
		SelfServiceRateLimit:       5,
		SelfServiceRateBurst:       10,
		ValidationWorkers:          2,
		DefaultGameDuration:        90 * time.Minute,
		DistanceCircuitFailures:    3,
		DistanceCircuitOpenTimeout: time.Second,
	}
}

func TestNewHTTPServer_MemoryStoreServesHealthAndMetrics(t *testing.T) {
	application, err := NewHTTPServer(t.Context(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	defer application.Close()

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(t.Context(), cfg, nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestBuildDistance_UsesPostalCentroidsWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "centroids.yaml")
	body := strings.Join([]string{
		"postal_centroids:",
		"  T2P: {lat: 51.0447, lon: -114.0719}",
		"  T5J: {lat: 53.5461, lon: -113.4938}",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write centroids: %v", err)
	}

	cfg := memoryConfig()
	cfg.PostalCentroidsPath = path
	reference, err := loadReference(cfg)
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	if len(reference.Centroids) != 2 {
		t.Fatalf("expected 2 centroids, got %d", len(reference.Centroids))
	}

	distance := buildDistance(reference, cfg, nil, logging.NewNop())
	km, err := distance(location.Location{PostalCode: "T2P 1J9"}, location.Location{PostalCode: "T5J 0N3"})
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if km < 270 || km > 290 {
		t.Fatalf("expected Calgary to Edmonton around 280km, got %.1f", km)
	}
}

func TestBuildDistance_FallsBackToHaversine(t *testing.T) {
	distance := buildDistance(config.Reference{}, memoryConfig(), nil, logging.NewNop())
	km, err := distance(
		location.Location{Latitude: 51.0447, Longitude: -114.0719},
		location.Location{Latitude: 51.0447, Longitude: -114.0719},
	)
	if err != nil || km != 0 {
		t.Fatalf("expected zero distance, got %v err=%v", km, err)
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace("  SELECT id\n\tFROM games\n  WHERE id = $1 ")
	if got != "SELECT id FROM games WHERE id = $1" {
		t.Fatalf("unexpected formatted query %q", got)
	}

	long := formatDBQueryForTrace("SELECT " + strings.Repeat("x", 2*maxTracedQueryLength))
	if !strings.HasSuffix(long, "...") || len(long) != maxTracedQueryLength+3 {
		t.Fatalf("expected truncated query, got length %d", len(long))
	}
}
