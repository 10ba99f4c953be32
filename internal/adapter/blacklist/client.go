package blacklist

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

// Executor mirrors a blacklist change to the external execution service.
type Executor interface {
	Execute(ctx context.Context, number string, intent model.BlacklistIntent) (json.RawMessage, error)
}

// HTTPClient implements Executor via HTTP.
type HTTPClient struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type request struct {
	Number string `json:"number"`
	Intent string `json:"intent"`
}

// NewHTTPClient creates the execution client.
func NewHTTPClient(endpoint string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse blacklist url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("blacklist url must be absolute")
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

// Execute posts {number, intent} and returns the service reply. A body that
// is not JSON is returned as a JSON string.
func (c *HTTPClient) Execute(ctx context.Context, number string, intent model.BlacklistIntent) (json.RawMessage, error) {
	body, err := json.Marshal(request{Number: number, Intent: string(intent)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("blacklist execution failed",
			slog.String("intent", string(intent)),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return nil, fmt.Errorf("blacklist execution error: %s", resp.Status)
	}

	return asJSON(respBody), nil
}

func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
