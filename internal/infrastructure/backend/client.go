package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ecovoz/internal/config"

	"go.uber.org/zap"
)

// APIError is a non-2xx response from the ordering backend. Detail carries
// the backend's own message so the wizard can surface it verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) GetTariffs(ctx context.Context) ([]TariffInfo, error) {
	var out []TariffInfo
	// Public endpoint, no credential required.
	if err := c.do(ctx, "", http.MethodGet, "/admin/public/tariffs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetComplexes(ctx context.Context, token string) ([]Complex, error) {
	var out []Complex
	if err := c.do(ctx, token, http.MethodGet, "/users/complexes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAddresses(ctx context.Context, token string) ([]SavedAddress, error) {
	var out []SavedAddress
	if err := c.do(ctx, token, http.MethodGet, "/users/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBalance(ctx context.Context, token string) (Balance, error) {
	var out Balance
	if err := c.do(ctx, token, http.MethodGet, "/users/balance", nil, &out); err != nil {
		return Balance{}, err
	}
	return out, nil
}

func (c *Client) GetSubscriptions(ctx context.Context, token string) ([]Subscription, error) {
	var out []Subscription
	if err := c.do(ctx, token, http.MethodGet, "/users/subscriptions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, token string, req CreateAddressRequest) (CreatedAddress, error) {
	var out CreatedAddress
	if err := c.do(ctx, token, http.MethodPost, "/users/addresses", req, &out); err != nil {
		return CreatedAddress{}, err
	}
	return out, nil
}

func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (CreatedOrder, error) {
	var out CreatedOrder
	if err := c.do(ctx, token, http.MethodPost, "/orders/", req, &out); err != nil {
		return CreatedOrder{}, err
	}
	return out, nil
}

func (c *Client) CreatePayment(ctx context.Context, token string, req CreateOrderRequest) (CreatedPayment, error) {
	var out CreatedPayment
	if err := c.do(ctx, token, http.MethodPost, "/payments/create", req, &out); err != nil {
		return CreatedPayment{}, err
	}
	return out, nil
}

func (c *Client) GetAdminTariffs(ctx context.Context, token string) ([]TariffInfo, error) {
	var out []TariffInfo
	if err := c.do(ctx, token, http.MethodGet, "/admin/tariffs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTariff(ctx context.Context, token string, tariffID string, req TariffUpdate) (TariffInfo, error) {
	var out TariffInfo
	path := "/admin/tariffs/" + tariffID
	if err := c.do(ctx, token, http.MethodPut, path, req, &out); err != nil {
		return TariffInfo{}, err
	}
	return out, nil
}

func (c *Client) GetTodayOrders(ctx context.Context, token string) ([]AdminOrder, error) {
	var out []AdminOrder
	if err := c.do(ctx, token, http.MethodGet, "/admin/orders/today", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("calling backend %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeErrorDetail(resp.Body)
		c.logger.Warn("backend returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding backend response from %s: %w", path, err)
	}
	return nil
}

// decodeErrorDetail extracts a human-readable message from the backend's
// error envelope, which is either {"detail": "..."}, {"detail": [...]}
// or {"message": "..."}.
func decodeErrorDetail(r io.Reader) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return "Неизвестная ошибка сервиса"
	}

	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
			parts := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					parts = append(parts, it.Msg)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return "Неизвестная ошибка сервиса"
}
