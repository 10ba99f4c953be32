package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Notifier delivers an order status change to the customer channel.
type Notifier interface {
	Notify(ctx context.Context, order model.Order) error
}

// HTTPClient posts status changes to the notification endpoint.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type payload struct {
	OrderNumber string `json:"numeroOrden"`
	Status      string `json:"nuevoEstado"`
	Phone       string `json:"telefono"`
}

// NewHTTPClient validates the endpoint and builds a client bounded by timeout.
func NewHTTPClient(endpoint string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse notification url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notification url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Notify sends {numeroOrden, nuevoEstado, telefono}. Any 2xx is success.
func (c *HTTPClient) Notify(ctx context.Context, order model.Order) error {
	label := order.StatusLabel
	if label == "" {
		label = order.Status.Label()
	}

	body, err := json.Marshal(payload{OrderNumber: order.Number, Status: label, Phone: order.Phone})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.Error("notification request failed",
		slog.String("numeroOrden", order.Number),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(respBody)),
	)
	return fmt.Errorf("notification endpoint error: %s", resp.Status)
}
