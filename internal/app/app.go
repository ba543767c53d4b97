package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/synced-sports/internal/config"
	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/geo"
	cacherepo "github.com/riskibarqy/synced-sports/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/synced-sports/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/synced-sports/internal/platform/id"
	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
	"github.com/riskibarqy/synced-sports/internal/platform/resilience"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

const dbPingTimeout = 10 * time.Second

type stores struct {
	officials   official.Repository
	games       game.Repository
	assignments assignment.Repository
	close       func() error
}

// App is the assembled HTTP service. Close releases the store.
type App struct {
	Server *http.Server
	close  func() error
}

func (a *App) Close() error {
	if a == nil || a.close == nil {
		return nil
	}
	return a.close()
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var metricsManager *metrics.Manager
	if cfg.MetricsEnabled {
		metricsManager = metrics.NewManager(
			metrics.WithNamespace("synced_sports"),
			metrics.WithRuntimeCollectors(),
		)
	}

	reference, err := loadReference(cfg)
	if err != nil {
		return nil, err
	}
	distance := buildDistance(reference, cfg, metricsManager, logger)

	repos, err := openStores(ctx, cfg, metricsManager, logger)
	if err != nil {
		return nil, err
	}

	assignmentSvc := usecase.NewAssignmentService(
		repos.officials,
		repos.games,
		repos.assignments,
		reference.Matrix,
		distance,
		idgen.NewUUIDGenerator("asg"),
		usecase.WithAssignmentLogger(logger),
		usecase.WithAssignmentMetrics(metricsManager),
		usecase.WithValidationWorkers(cfg.ValidationWorkers),
	)
	scheduleSvc := usecase.NewScheduleService(
		repos.games,
		idgen.NewUUIDGenerator("gm"),
		usecase.WithScheduleLogger(logger),
		usecase.WithScheduleMetrics(metricsManager),
		usecase.WithDefaultGameDuration(cfg.DefaultGameDuration),
	)

	handler := httpapi.NewHandler(assignmentSvc, scheduleSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SelfAssignLimiter:  httpapi.NewActorRateLimiter(cfg.SelfServiceRateLimit, cfg.SelfServiceRateBurst),
		Metrics:            metricsManager,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{Server: server, close: repos.close}, nil
}

func loadReference(cfg config.Config) (config.Reference, error) {
	reference, err := config.LoadReference(cfg.QualificationMatrixPath)
	if err != nil {
		return config.Reference{}, err
	}
	if cfg.PostalCentroidsPath == "" || cfg.PostalCentroidsPath == cfg.QualificationMatrixPath {
		return reference, nil
	}

	centroids, err := config.LoadReference(cfg.PostalCentroidsPath)
	if err != nil {
		return config.Reference{}, err
	}
	if reference.Centroids == nil {
		reference.Centroids = make(map[string]geo.Centroid, len(centroids.Centroids))
	}
	for code, c := range centroids.Centroids {
		reference.Centroids[code] = c
	}
	return reference, nil
}

// buildDistance prefers postal centroids when any are configured, falling
// back to coordinates inside the resolver.
func buildDistance(reference config.Reference, cfg config.Config, m *metrics.Manager, logger *logging.Logger) location.DistanceFunc {
	if len(reference.Centroids) == 0 {
		return geo.Haversine
	}

	const breakerName = "postal_distance"
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.DistanceCircuitFailures,
		OpenTimeout:      cfg.DistanceCircuitOpenTimeout,
		OnStateChange: func(from, to resilience.CircuitState) {
			m.SetBreakerOpen(breakerName, to == resilience.CircuitStateOpen)
			logger.Warn("distance circuit state changed", "breaker", breakerName, "from", from, "to", to)
		},
	})
	m.SetBreakerOpen(breakerName, false)

	return geo.Guard(geo.NewPostalResolver(reference.Centroids).Distance, breaker)
}

func openStores(ctx context.Context, cfg config.Config, m *metrics.Manager, logger *logging.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return stores{}, err
		}

		var (
			officials official.Repository = postgres.NewOfficialRepository(db)
			games     game.Repository     = postgres.NewGameRepository(db)
		)
		if cfg.CacheEnabled {
			officials = cacherepo.NewOfficialRepository(officials, cfg.CacheTTL, m)
			games = cacherepo.NewGameRepository(games, cfg.CacheTTL, m)
		}

		logger.Info("store ready", "driver", config.StorePostgres, "database", dbNameFromURL(cfg.DBURL), "cache", cfg.CacheEnabled)
		return stores{
			officials:   officials,
			games:       games,
			assignments: postgres.NewAssignmentRepository(db),
			close:       db.Close,
		}, nil
	default:
		games := memory.NewGameRepository(memory.SeedGames())
		logger.Info("store ready", "driver", config.StoreMemory, "seeded", true)
		return stores{
			officials:   memory.NewOfficialRepository(memory.SeedOfficials()),
			games:       games,
			assignments: memory.NewAssignmentRepository(games),
			close:       func() error { return nil },
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
