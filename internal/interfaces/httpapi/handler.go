package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	assignmentService *usecase.AssignmentService
	scheduleService   *usecase.ScheduleService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	assignmentService *usecase.AssignmentService,
	scheduleService *usecase.ScheduleService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		assignmentService: assignmentService,
		scheduleService:   scheduleService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requireActor(ctx context.Context) (string, error) {
	actorID, ok := actorFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: actor is missing from request context", usecase.ErrUnauthorized)
	}
	return actorID, nil
}
