package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
	"ecovoz/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WizardUseCase interface {
	Start(ctx context.Context, token, tariff string) (*wizard.SessionState, error)
	State(sessionID string) (*wizard.SessionState, error)
	Quote(sessionID string) (domain.DisplayQuote, error)
	Update(sessionID string, patch wizard.DraftPatch) (*wizard.SessionState, error)
	Advance(ctx context.Context, sessionID string) (*wizard.AdvanceResult, error)
	Retreat(sessionID string) (*wizard.SessionState, error)
}

type Controller struct {
	useCase WizardUseCase
	logger  *zap.Logger
}

func NewController(useCase WizardUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

type startRequest struct {
	Tariff string `json:"tariff"`
}

func (c *Controller) HandleStart(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	state, err := c.useCase.Start(r.Context(), bearerToken(r), req.Tariff)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, stateResponse{TraceID: traceID, State: state, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleState(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	state, err := c.useCase.State(chi.URLParam(r, "sessionId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, stateResponse{TraceID: traceID, State: state, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleQuote(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	quote, err := c.useCase.Quote(chi.URLParam(r, "sessionId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, quoteResponse{TraceID: traceID, Quote: quote, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var patch wizard.DraftPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	state, err := c.useCase.Update(chi.URLParam(r, "sessionId"), patch)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, stateResponse{TraceID: traceID, State: state, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	result, err := c.useCase.Advance(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, advanceResponse{TraceID: traceID, Result: result, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	state, err := c.useCase.Retreat(chi.URLParam(r, "sessionId"))
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, stateResponse{TraceID: traceID, State: state, Timestamp: time.Now().UTC()})
}

type stateResponse struct {
	TraceID   string               `json:"traceId"`
	State     *wizard.SessionState `json:"state"`
	Timestamp time.Time            `json:"timestamp"`
}

type quoteResponse struct {
	TraceID   string              `json:"traceId"`
	Quote     domain.DisplayQuote `json:"quote"`
	Timestamp time.Time           `json:"timestamp"`
}

type advanceResponse struct {
	TraceID   string                `json:"traceId"`
	Result    *wizard.AdvanceResult `json:"result"`
	Timestamp time.Time             `json:"timestamp"`
}

type errorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func (c *Controller) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsUnavailableError(err); ok {
		// Submission failures surface the backend's message verbatim.
		c.writeErrorResponse(w, traceID, http.StatusBadGateway, "BACKEND_ERROR", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *Controller) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string) {
	c.writeJSON(w, statusCode, errorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, errorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
