package httpapi

import (
	"net/http"

	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	// SelfAssignLimiter throttles self-service claims per actor. Nil disables it.
	SelfAssignLimiter *ActorRateLimiter
	// Metrics is served on /metrics when set.
	Metrics *metrics.Manager
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.Metrics)
	registerAssignmentRoutes(mux, handler, opts.SelfAssignLimiter)
	registerScheduleRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, opts.Metrics, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, captureRoute(mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
