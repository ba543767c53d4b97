package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

func (h *Handler) AssignOfficial(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignOfficial")
	defer span.End()

	actorID, err := requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req assignRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.assignmentService.Assign(ctx, usecase.AssignInput{
		GameID:     r.PathValue("gameID"),
		OfficialID: req.OfficialID,
		Position:   req.Position,
		Mode:       assignment.Administrative,
		ActorID:    actorID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "administrative assign failed", "game_id", r.PathValue("gameID"), "official_id", req.OfficialID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, assignOutcomeDTO{
		Assignment: assignmentToDTO(out.Assignment),
		Validation: validationResultToDTO(out.Result),
	})
}

// SelfAssign books the calling official onto a game position.
func (h *Handler) SelfAssign(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelfAssign")
	defer span.End()

	actorID, err := requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req selfAssignRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.assignmentService.Assign(ctx, usecase.AssignInput{
		GameID:     r.PathValue("gameID"),
		OfficialID: actorID,
		Position:   req.Position,
		Mode:       assignment.SelfService,
		ActorID:    actorID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "self assign failed", "game_id", r.PathValue("gameID"), "official_id", actorID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, assignOutcomeDTO{
		Assignment: assignmentToDTO(out.Assignment),
		Validation: validationResultToDTO(out.Result),
	})
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCandidates")
	defer span.End()

	position := strings.TrimSpace(r.URL.Query().Get("position"))
	if position == "" {
		writeError(ctx, w, fmt.Errorf("%w: position query parameter is required", usecase.ErrInvalidInput))
		return
	}

	items, err := h.assignmentService.RankCandidates(ctx, r.PathValue("gameID"), position)
	if err != nil {
		h.logger.WarnContext(ctx, "rank candidates failed", "game_id", r.PathValue("gameID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]candidateDTO, 0, len(items))
	for _, item := range items {
		out = append(out, candidateToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ChangeWageMultiplier(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeWageMultiplier")
	defer span.End()

	var req changeMultiplierRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.assignmentService.ChangeMultiplier(ctx, r.PathValue("gameID"), req.Multiplier, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "change wage multiplier failed", "game_id", r.PathValue("gameID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]assignmentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, assignmentToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// ValidateAssignments dry-runs a batch of proposals. Nothing is stored.
func (h *Handler) ValidateAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateAssignments")
	defer span.End()

	actorID, err := requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req validateAssignmentsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]usecase.AssignInput, 0, len(req.Items))
	for i, item := range req.Items {
		mode, err := assignment.ParsePolicyMode(strings.TrimSpace(item.Mode))
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: items[%d]: %v", usecase.ErrInvalidInput, i, err))
			return
		}
		inputs = append(inputs, usecase.AssignInput{
			GameID:     item.GameID,
			OfficialID: item.OfficialID,
			Position:   item.Position,
			Mode:       mode,
			ActorID:    actorID,
		})
	}

	results, err := h.assignmentService.ValidateBatch(ctx, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "validate assignments failed", "items", len(inputs), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]batchResultDTO, 0, len(results))
	for _, result := range results {
		out = append(out, batchResultToDTO(result))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptAssignment")
	defer span.End()

	h.transitionAssignment(w, r.WithContext(ctx), "accept", h.assignmentService.Accept)
}

func (h *Handler) DeclineAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineAssignment")
	defer span.End()

	h.transitionAssignment(w, r.WithContext(ctx), "decline", h.assignmentService.Decline)
}

func (h *Handler) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelAssignment")
	defer span.End()

	h.transitionAssignment(w, r.WithContext(ctx), "cancel", h.assignmentService.Cancel)
}

func (h *Handler) transitionAssignment(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(ctx context.Context, assignmentID, actorID string) (assignment.Assignment, error),
) {
	ctx := r.Context()

	actorID, err := requireActor(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := apply(ctx, r.PathValue("assignmentID"), actorID)
	if err != nil {
		h.logger.WarnContext(ctx, "assignment transition failed",
			"action", action,
			"assignment_id", r.PathValue("assignmentID"),
			"actor_id", actorID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(item))
}

func (h *Handler) RecalculateWage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateWage")
	defer span.End()

	item, err := h.assignmentService.RecalculateWage(ctx, r.PathValue("assignmentID"))
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate wage failed", "assignment_id", r.PathValue("assignmentID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentToDTO(item))
}
