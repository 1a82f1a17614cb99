package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecovoz/internal/infrastructure/backend"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type mockGateway struct {
	GetAdminTariffsFunc func(ctx context.Context, token string) ([]backend.TariffInfo, error)
	UpdateTariffFunc    func(ctx context.Context, token, tariffID string, req backend.TariffUpdate) (backend.TariffInfo, error)
	GetTodayOrdersFunc  func(ctx context.Context, token string) ([]backend.AdminOrder, error)
}

func (m *mockGateway) GetAdminTariffs(ctx context.Context, token string) ([]backend.TariffInfo, error) {
	return m.GetAdminTariffsFunc(ctx, token)
}

func (m *mockGateway) UpdateTariff(ctx context.Context, token, tariffID string, req backend.TariffUpdate) (backend.TariffInfo, error) {
	return m.UpdateTariffFunc(ctx, token, tariffID, req)
}

func (m *mockGateway) GetTodayOrders(ctx context.Context, token string) ([]backend.AdminOrder, error) {
	return m.GetTodayOrdersFunc(ctx, token)
}

func newTestRouter(gw *mockGateway) *chi.Mux {
	c := NewController(gw, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/admin/tariffs", c.HandleListTariffs)
	r.Put("/api/admin/tariffs/{tariffId}", c.HandleUpdateTariff)
	r.Get("/api/admin/orders/today", c.HandleTodayOrders)
	return r
}

func TestHandleListTariffs_RequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/tariffs", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&mockGateway{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleListTariffs_PassesThrough(t *testing.T) {
	var gotToken string
	gw := &mockGateway{
		GetAdminTariffsFunc: func(ctx context.Context, token string) ([]backend.TariffInfo, error) {
			gotToken = token
			return []backend.TariffInfo{{TariffID: "single", Price: 199}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/tariffs", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	newTestRouter(gw).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotToken != "admin-token" {
		t.Errorf("operator credential must pass through, got %q", gotToken)
	}

	var resp listResponse[backend.TariffInfo]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].TariffID != "single" {
		t.Errorf("unexpected items: %+v", resp.Items)
	}
}

func TestHandleUpdateTariff_ForwardsIDAndBody(t *testing.T) {
	var gotID string
	var gotReq backend.TariffUpdate
	gw := &mockGateway{
		UpdateTariffFunc: func(ctx context.Context, token, tariffID string, req backend.TariffUpdate) (backend.TariffInfo, error) {
			gotID = tariffID
			gotReq = req
			return backend.TariffInfo{TariffID: tariffID, Price: req.Price}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/tariffs/monthly", strings.NewReader(`{"price": 1700}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	newTestRouter(gw).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "monthly" || gotReq.Price != 1700 {
		t.Errorf("unexpected forward: id=%q req=%+v", gotID, gotReq)
	}
}

func TestHandleUpdateTariff_BackendClientErrorKeepsStatus(t *testing.T) {
	gw := &mockGateway{
		UpdateTariffFunc: func(ctx context.Context, token, tariffID string, req backend.TariffUpdate) (backend.TariffInfo, error) {
			return backend.TariffInfo{}, &backend.APIError{StatusCode: http.StatusForbidden, Detail: "Недостаточно прав"}
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/tariffs/single", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	newTestRouter(gw).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("4xx backend status must pass through, got %d", rec.Code)
	}

	var resp errorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Недостаточно прав" {
		t.Errorf("backend message must surface, got %q", resp.Message)
	}
}

func TestHandleTodayOrders_ServerErrorIs502(t *testing.T) {
	gw := &mockGateway{
		GetTodayOrdersFunc: func(ctx context.Context, token string) ([]backend.AdminOrder, error) {
			return nil, &backend.APIError{StatusCode: http.StatusInternalServerError, Detail: "db down"}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/today", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	newTestRouter(gw).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("5xx backend status must map to 502, got %d", rec.Code)
	}
}
