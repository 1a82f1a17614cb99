package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ecovoz/internal/infrastructure/backend"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the operator-facing slice of the ordering backend. The admin
// console holds no state of its own; every call is a pass-through with the
// operator's credential.
type Gateway interface {
	GetAdminTariffs(ctx context.Context, token string) ([]backend.TariffInfo, error)
	UpdateTariff(ctx context.Context, token, tariffID string, req backend.TariffUpdate) (backend.TariffInfo, error)
	GetTodayOrders(ctx context.Context, token string) ([]backend.AdminOrder, error)
}

type Controller struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewController(gateway Gateway, logger *zap.Logger) *Controller {
	return &Controller{gateway: gateway, logger: logger}
}

func (c *Controller) HandleListTariffs(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	token, ok := c.requireToken(w, r, traceID)
	if !ok {
		return
	}

	tariffs, err := c.gateway.GetAdminTariffs(r.Context(), token)
	if err != nil {
		c.writeBackendError(w, traceID, err)
		return
	}
	c.writeJSON(w, http.StatusOK, listResponse[backend.TariffInfo]{TraceID: traceID, Items: tariffs, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleUpdateTariff(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	token, ok := c.requireToken(w, r, traceID)
	if !ok {
		return
	}

	var req backend.TariffUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	tariff, err := c.gateway.UpdateTariff(r.Context(), token, chi.URLParam(r, "tariffId"), req)
	if err != nil {
		c.writeBackendError(w, traceID, err)
		return
	}
	c.writeJSON(w, http.StatusOK, itemResponse[backend.TariffInfo]{TraceID: traceID, Item: tariff, Timestamp: time.Now().UTC()})
}

func (c *Controller) HandleTodayOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	token, ok := c.requireToken(w, r, traceID)
	if !ok {
		return
	}

	orders, err := c.gateway.GetTodayOrders(r.Context(), token)
	if err != nil {
		c.writeBackendError(w, traceID, err)
		return
	}
	c.writeJSON(w, http.StatusOK, listResponse[backend.AdminOrder]{TraceID: traceID, Items: orders, Timestamp: time.Now().UTC()})
}

type listResponse[T any] struct {
	TraceID   string    `json:"traceId"`
	Items     []T       `json:"items"`
	Timestamp time.Time `json:"timestamp"`
}

type itemResponse[T any] struct {
	TraceID   string    `json:"traceId"`
	Item      T         `json:"item"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Controller) requireToken(w http.ResponseWriter, r *http.Request, traceID string) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		c.writeError(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "bearer credential required")
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

func (c *Controller) writeBackendError(w http.ResponseWriter, traceID string, err error) {
	status := http.StatusBadGateway
	if apiErr, ok := err.(*backend.APIError); ok && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		status = apiErr.StatusCode
	}
	c.writeError(w, traceID, status, "BACKEND_ERROR", err.Error())
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
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
