package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/synced-sports/internal/platform/cache"
	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

const actorHeader = "X-Actor-ID"

// RequireActor reads the caller identity from the X-Actor-ID header.
// Identity is asserted by an upstream gateway; this service does not
// authenticate it.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireActor")
		defer span.End()

		actorID := strings.TrimSpace(r.Header.Get(actorHeader))
		if actorID == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing %s header", usecase.ErrUnauthorized, actorHeader))
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(ctx, actorID)))
	})
}

// Bounds on how long an idle actor's bucket is kept.
const (
	minLimiterIdle = time.Minute
	maxLimiterIdle = 24 * time.Hour
)

// ActorRateLimiter keeps one token bucket per actor. Buckets idle longer
// than it takes to refill completely are evicted, since a fresh bucket is
// then indistinguishable from the old one.
type ActorRateLimiter struct {
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	limiters *cache.Store[*rate.Limiter]

	mu        sync.Mutex
	lastSweep time.Time
}

// NewActorRateLimiter returns nil when perSecond <= 0, which disables
// limiting.
func NewActorRateLimiter(perSecond float64, burst int) *ActorRateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	idle := maxLimiterIdle
	if refill := float64(burst) / perSecond; refill < maxLimiterIdle.Seconds() {
		idle = max(time.Duration(refill*float64(time.Second)), minLimiterIdle)
	}

	l := &ActorRateLimiter{
		limit: rate.Limit(perSecond),
		burst: burst,
		idle:  idle,
		now:   time.Now,
	}
	l.limiters = cache.NewStore[*rate.Limiter]("actor_rate_limiters", l.idle,
		cache.WithClock[*rate.Limiter](func() time.Time { return l.now() }))
	l.lastSweep = l.now()
	return l
}

func (l *ActorRateLimiter) Allow(ctx context.Context, actorID string) bool {
	if l == nil {
		return true
	}

	limiter, err := l.limiters.GetOrLoad(ctx, actorID, func(context.Context) (*rate.Limiter, error) {
		return rate.NewLimiter(l.limit, l.burst), nil
	})
	if err != nil {
		return true
	}
	// refresh so only idle actors expire
	l.limiters.Set(ctx, actorID, limiter)
	l.sweep()

	return limiter.AllowN(l.now(), 1)
}

// Len reports how many actors currently hold a bucket.
func (l *ActorRateLimiter) Len() int {
	if l == nil {
		return 0
	}
	return l.limiters.Len()
}

func (l *ActorRateLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	due := now.Sub(l.lastSweep) >= l.idle
	if due {
		l.lastSweep = now
	}
	l.mu.Unlock()

	if due {
		l.limiters.DeleteExpired()
	}
}

// RateLimitActor must run after RequireActor.
func RateLimitActor(limiter *ActorRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RateLimitActor")
		defer span.End()

		actorID, _ := actorFromContext(ctx)
		if !limiter.Allow(ctx, actorID) {
			w.Header().Set("Retry-After", "1")
			writeError(ctx, w, fmt.Errorf("%w: actor=%s", errRateLimited, actorID))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func RequestLogging(logger *logging.Logger, m *metrics.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		info := &routeInfo{}
		ctx = withRouteInfo(ctx, info)
		rec := &statusRecorder{ResponseWriter: w}

		started := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		elapsed := time.Since(started)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		route := info.pattern
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(r.Method, route, rec.status, elapsed)

		spanContext := trace.SpanContextFromContext(ctx)
		traceID := ""
		spanID := ""
		if spanContext.IsValid() {
			traceID = spanContext.TraceID().String()
			spanID = spanContext.SpanID().String()
		}

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", elapsed.Milliseconds(),
			"trace_id", traceID,
			"span_id", spanID,
		)
	})
}

// captureRoute sits directly in front of the mux, which records the
// matched pattern on the request it receives.
func captureRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if info, ok := routeInfoFromContext(r.Context()); ok {
			info.pattern = r.Pattern
		}
	})
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "synced-sports-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/livez", "/readyz", "/metrics":
		return false
	default:
		return true
	}
}

func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		candidate := strings.TrimSpace(origin)
		if candidate == "" {
			continue
		}
		if candidate == "*" {
			allowAll = true
			continue
		}
		allowMap[candidate] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.CORS")
		defer span.End()

		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		allowed := allowAll
		if !allowed {
			_, allowed = allowMap[origin]
		}
		if allowed {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Accept,"+actorHeader)
			w.Header().Set("Access-Control-Max-Age", "600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
