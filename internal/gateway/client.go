package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/benx421/payment-gateway/escrow/internal/config"
)

// Client talks to the payment gateway's REST API. Every call is bounded by
// the configured timeout; mutating calls carry an Idempotency-Key header.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a gateway client.
func NewClient(cfg config.GatewayConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// CreateOrder opens a checkout order for the buyer to approve.
// POST /v1/orders
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, "create order", http.MethodPost, "/v1/orders", req.IdempotencyKey, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderStatus fetches the current status of an order.
// GET /v1/orders/{id}
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (OrderStatus, error) {
	var order Order
	path := "/v1/orders/" + url.PathEscape(orderID)
	if err := c.do(ctx, "get order", http.MethodGet, path, "", nil, &order); err != nil {
		return "", err
	}
	return order.Status, nil
}

// CaptureOrder captures the funds of a buyer-approved order.
// POST /v1/orders/{id}/capture
func (c *Client) CaptureOrder(ctx context.Context, orderID, idempotencyKey string) (*Capture, error) {
	var capture Capture
	path := "/v1/orders/" + url.PathEscape(orderID) + "/capture"
	if err := c.do(ctx, "capture order", http.MethodPost, path, idempotencyKey, struct{}{}, &capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

// VoidOrder cancels an order that was never captured.
// POST /v1/orders/{id}/void
func (c *Client) VoidOrder(ctx context.Context, orderID, idempotencyKey string) error {
	path := "/v1/orders/" + url.PathEscape(orderID) + "/void"
	return c.do(ctx, "void order", http.MethodPost, path, idempotencyKey, struct{}{}, nil)
}

// Refund returns captured funds to the payer.
// POST /v1/captures/{id}/refund
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	var refund Refund
	path := "/v1/captures/" + url.PathEscape(req.CaptureID) + "/refund"
	if err := c.do(ctx, "refund", http.MethodPost, path, req.IdempotencyKey, req, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// Payout transfers funds from the platform balance to a payee.
// POST /v1/payouts
func (c *Client) Payout(ctx context.Context, req PayoutRequest) (*Payout, error) {
	var payout Payout
	if err := c.do(ctx, "payout", http.MethodPost, "/v1/payouts", req.IdempotencyKey, req, &payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

func (c *Client) do(ctx context.Context, op, method, path, idempotencyKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed", "op", op, "error", err)
		return &Error{Kind: ErrUnavailable, Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// The call went through but its result is unreadable.
		return &Error{Kind: ErrUnavailable, Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response: " + err.Error()}
	}
	return nil
}

func (c *Client) decodeError(op string, resp *http.Response) error {
	var body ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body) //nolint:errcheck // Non-JSON bodies fall back to the raw text
	}
	if body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
	}

	gwErr := &Error{
		Op:         op,
		Code:       body.Error,
		Message:    body.Message,
		StatusCode: resp.StatusCode,
	}

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusRequestTimeout:
		gwErr.Kind = ErrUnavailable
	case resp.StatusCode == http.StatusNotFound:
		gwErr.Kind = ErrNotFound
	default:
		gwErr.Kind = kindForCode(body.Error)
	}

	c.logger.Warn("gateway returned an error",
		"op", op,
		"status", resp.StatusCode,
		"code", body.Error,
	)

	return gwErr
}
