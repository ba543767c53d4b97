package httpapi

import (
	"net/http"

	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
}

func registerAssignmentRoutes(mux *http.ServeMux, handler *Handler, limiter *ActorRateLimiter) {
	mux.Handle("POST /v1/games/{gameID}/assignments", RequireActor(http.HandlerFunc(handler.AssignOfficial)))
	mux.Handle("POST /v1/games/{gameID}/self-assign", RequireActor(RateLimitActor(limiter, http.HandlerFunc(handler.SelfAssign))))
	mux.Handle("GET /v1/games/{gameID}/candidates", RequireActor(http.HandlerFunc(handler.ListCandidates)))
	mux.Handle("PUT /v1/games/{gameID}/wage-multiplier", RequireActor(http.HandlerFunc(handler.ChangeWageMultiplier)))
	mux.Handle("POST /v1/assignments/validate", RequireActor(http.HandlerFunc(handler.ValidateAssignments)))
	mux.Handle("POST /v1/assignments/{assignmentID}/accept", RequireActor(http.HandlerFunc(handler.AcceptAssignment)))
	mux.Handle("POST /v1/assignments/{assignmentID}/decline", RequireActor(http.HandlerFunc(handler.DeclineAssignment)))
	mux.Handle("POST /v1/assignments/{assignmentID}/cancel", RequireActor(http.HandlerFunc(handler.CancelAssignment)))
	mux.Handle("POST /v1/assignments/{assignmentID}/recalculate-wage", RequireActor(http.HandlerFunc(handler.RecalculateWage)))
}

func registerScheduleRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/schedules/generate", RequireActor(http.HandlerFunc(handler.GenerateSchedule)))
	mux.Handle("POST /v1/schedules/publish", RequireActor(http.HandlerFunc(handler.PublishSchedule)))
	mux.Handle("GET /v1/schedules/{scheduleID}/games", RequireActor(http.HandlerFunc(handler.ListScheduleGames)))
}
