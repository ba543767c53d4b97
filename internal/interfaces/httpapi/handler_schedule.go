package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

// GenerateSchedule returns a generated schedule without storing it.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateSchedule")
	defer span.End()

	var req generateScheduleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cfg, err := req.Config.toConfig()
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: start_date: %v", usecase.ErrInvalidInput, err))
		return
	}

	schedule, err := h.scheduleService.Generate(ctx, usecase.GenerateScheduleInput{
		Format: req.Format,
		Teams:  req.Teams,
		Config: cfg,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate schedule failed", "format", req.Format, "teams", len(req.Teams), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, schedule)
}

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishSchedule")
	defer span.End()

	var req publishScheduleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var duration time.Duration
	if raw := strings.TrimSpace(req.GameDuration); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: game_duration must be a positive duration such as 90m", usecase.ErrInvalidInput))
			return
		}
		duration = parsed
	}

	venues := make(map[string]location.Location, len(req.Venues))
	for name, venue := range req.Venues {
		venues[name] = location.Location{
			Latitude:   venue.Latitude,
			Longitude:  venue.Longitude,
			PostalCode: strings.TrimSpace(venue.PostalCode),
			Label:      name,
		}
	}

	published, err := h.scheduleService.Publish(ctx, usecase.PublishScheduleInput{
		Schedule:         req.Schedule,
		Division:         req.Division,
		PositionsNeeded:  req.PositionsNeeded,
		WageMultiplier:   req.WageMultiplier,
		MultiplierReason: req.MultiplierReason,
		GameDuration:     duration,
		TimeZone:         req.TimeZone,
		Venues:           venues,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish schedule failed", "division", req.Division, "games", len(req.Schedule.Games), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, publishedScheduleDTO{
		ScheduleID:  published.ScheduleID,
		ByesSkipped: published.ByesSkipped,
		Games:       gamesToDTO(published.Games),
	})
}

func (h *Handler) ListScheduleGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScheduleGames")
	defer span.End()

	items, err := h.scheduleService.Games(ctx, r.PathValue("scheduleID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(items))
}
