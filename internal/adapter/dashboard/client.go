package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// Client talks to the dashboard API on behalf of the terminal feed.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dashboard client authenticated with a bearer token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("dashboard url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    parsed,
		token:      token,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ListActive fetches GET /orders/active.
func (c *Client) ListActive(ctx context.Context) ([]model.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, nil, "orders", "active")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var payload []dto.Order
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode active orders: %w", err)
	}

	orders := make([]model.Order, 0, len(payload))
	for _, o := range payload {
		orders = append(orders, o.ToModel())
	}
	return orders, nil
}

// Commit sends PATCH /orders/{number} with the display label of status.
// A 502 reply means the status was stored but the customer was not notified.
func (c *Client) Commit(ctx context.Context, number string, status model.OrderStatus) (dto.TransitionResponse, error) {
	body, err := json.Marshal(dto.TransitionRequest{Status: status.Label()})
	if err != nil {
		return dto.TransitionResponse{}, err
	}

	resp, err := c.do(ctx, http.MethodPatch, body, "orders", number)
	if err != nil {
		return dto.TransitionResponse{}, err
	}
	defer resp.Body.Close()

	var result dto.TransitionResponse
	if resp.StatusCode == http.StatusBadGateway {
		_ = json.NewDecoder(resp.Body).Decode(&result)
		reason := result.Error
		if reason == "" {
			reason = resp.Status
		}
		return result, &domainErrors.NotificationError{
			OrderNumber: number,
			Status:      string(status),
			Err:         errors.New(reason),
		}
	}

	if err := c.check(resp); err != nil {
		return dto.TransitionResponse{}, err
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return dto.TransitionResponse{}, fmt.Errorf("decode transition: %w", err)
	}
	return result, nil
}

// Delete sends DELETE /orders/{number}.
func (c *Client) Delete(ctx context.Context, number string) error {
	resp, err := c.do(ctx, http.MethodDelete, nil, "orders", number)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.check(resp)
}

func (c *Client) do(ctx context.Context, method string, body []byte, segments ...string) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(segments...)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

func (c *Client) check(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return domainErrors.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("dashboard request failed",
			slog.String("path", resp.Request.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("dashboard error: %s", resp.Status)
	}
}
