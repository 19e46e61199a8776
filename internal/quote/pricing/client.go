package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"laserquote/internal/common/httpclient"
	"laserquote/internal/common/logger"
	"laserquote/internal/common/metrics"
)

const fallbackMessage = "Backend no disponible - usando cálculo simulado"

// Client submits assembled quote requests to the price calculator. Like the
// analysis client it never returns an error: when the backend is unreachable
// or rejects the request, Calculate answers with a locally simulated price
// stamped Success=false so the caller can still show a figure.
type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
	now    func() time.Time
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{"component": "pricing-client"}),
		now:    time.Now,
	}
}

// Calculate posts the request to the calculator and normalizes the response.
// A backend answer missing quote_id or valid_until gets both filled in
// locally, so downstream code can rely on them being present.
func (c *Client) Calculate(ctx context.Context, req QuoteRequest) QuoteResult {
	data, err := c.submit(ctx, req)
	if err != nil {
		c.logger.Warn("pricing degraded to simulated quote", map[string]interface{}{
			"customer": req.Cliente.Mail,
			"error":    err.Error(),
		})
		metrics.BackendFallbacks.WithLabelValues("pricing").Inc()
		return QuoteResult{
			Success: false,
			Data:    simulatedQuote(req, c.now()),
			Error:   err.Error(),
			Message: fallbackMessage,
		}
	}

	if data.QuoteID == "" {
		data.QuoteID = fmt.Sprintf("Q-%d", c.now().UnixMilli())
	}
	if data.ValidUntil == "" {
		data.ValidUntil = c.now().Add(quoteValidity).UTC().Format(time.RFC3339)
	}

	c.logger.Info("quote calculated", map[string]interface{}{
		"quote_id": data.QuoteID,
		"total":    data.TotalPrice,
	})
	return QuoteResult{Success: true, Data: data}
}

func (c *Client) submit(ctx context.Context, req QuoteRequest) (*QuoteData, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode quote request: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/calculate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("quote calculator returned %d", resp.StatusCode)
	}

	var result QuoteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "quote calculator rejected the request"
		}
		return nil, fmt.Errorf("%s", msg)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("quote calculator answered success without data")
	}

	return result.Data, nil
}
