package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecovoz/internal/config"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Complex{})
	})

	if _, err := c.GetComplexes(context.Background(), "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_TariffsEndpointIsPublic(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]TariffInfo{{TariffID: "single", Price: 199, IsActive: true}})
	})

	tariffs, err := c.GetTariffs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("public tariff listing must not send credentials, got %q", gotAuth)
	}
	if gotPath != "/admin/public/tariffs" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(tariffs) != 1 || tariffs[0].Price != 199 {
		t.Errorf("unexpected tariffs: %+v", tariffs)
	}
}

func TestClient_CreateOrderWirePayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(CreatedOrder{ID: 7, Status: "scheduled"})
	})

	order, err := c.CreateOrder(context.Background(), "t", CreateOrderRequest{
		AddressID: 3,
		Date:      "2026-09-02",
		TimeSlot:  "12:00-14:00",
		IsUrgent:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/orders/" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody["address_id"] != float64(3) || gotBody["time_slot"] != "12:00-14:00" || gotBody["is_urgent"] != true {
		t.Errorf("wire field names must stay snake_case, got %v", gotBody)
	}
	if order.ID != 7 {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestClient_CreatePaymentDecodesConfirmationURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"confirmation_url": "https://pay.example/abc"}`))
	})

	payment, err := c.CreatePayment(context.Background(), "t", CreateOrderRequest{AddressID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.ConfirmationURL != "https://pay.example/abc" {
		t.Errorf("unexpected url %q", payment.ConfirmationURL)
	}
}

func TestClient_ErrorDetailEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail": "Недостаточно средств"}`, "Недостаточно средств"},
		{"list detail", `{"detail": [{"msg": "field required"}, {"msg": "value too small"}]}`, "field required, value too small"},
		{"message field", `{"message": "Сервис недоступен"}`, "Сервис недоступен"},
		{"garbage body", `not json`, "Неизвестная ошибка сервиса"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			})

			_, err := c.CreateOrder(context.Background(), "t", CreateOrderRequest{})
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusBadRequest {
				t.Errorf("unexpected status %d", apiErr.StatusCode)
			}
			if apiErr.Detail != tc.want {
				t.Errorf("expected detail %q, got %q", tc.want, apiErr.Detail)
			}
		})
	}
}

func TestClient_UpdateTariffPath(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(TariffInfo{TariffID: "single", Price: 250})
	})

	updated, err := c.UpdateTariff(context.Background(), "admin-token", "single", TariffUpdate{Price: 250})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/admin/tariffs/single" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
	if updated.Price != 250 {
		t.Errorf("unexpected tariff: %+v", updated)
	}
}

func TestClient_ContextCancellationAborts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.GetBalance(ctx, "t"); err == nil {
		t.Error("expected error on cancelled context")
	}
}
