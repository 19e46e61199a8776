package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"laserquote/internal/common/httpclient"
	"laserquote/internal/common/logger"
	"laserquote/internal/common/metrics"
)

const fallbackWarning = "Backend de análisis no disponible - usando datos simulados"

// Client submits drawings to the DXF analysis service. It is a boundary
// client: Analyze never returns an error, every failure path degrades to a
// well-formed simulated Result with Success=false.
type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{"component": "analysis-client"}),
	}
}

// Analyze submits the file as a multipart payload and returns the parsed
// analysis. On any failure (transport, non-2xx, malformed body, service
// rejection) it returns the simulated baseline stamped Success=false; the
// caller cannot distinguish why analysis failed, only that it did.
func (c *Client) Analyze(ctx context.Context, file DrawingFile) Result {
	result, err := c.submit(ctx, file)
	if err != nil {
		c.logger.Warn("analysis degraded to simulated data", map[string]interface{}{
			"file":  file.Name,
			"error": err.Error(),
		})
		metrics.BackendFallbacks.WithLabelValues("analysis").Inc()
		return simulatedResult(err)
	}

	c.logger.Info("drawing analyzed", map[string]interface{}{
		"file":       file.Name,
		"complexity": result.Complexity,
		"area":       result.BoundingBox.Area,
	})
	return result
}

func (c *Client) submit(ctx context.Context, file DrawingFile) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return Result{}, fmt.Errorf("build multipart payload: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return Result{}, fmt.Errorf("write multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("close multipart payload: %w", err)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return Result{}, fmt.Errorf("analysis service returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode analysis response: %w", err)
	}

	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "analysis service rejected the drawing"
		}
		return Result{}, fmt.Errorf("%s", msg)
	}

	return result, nil
}

// simulatedResult is the fixed-shape fallback: pre-agreed sample
// dimensions, moderate complexity, fixed cut length.
func simulatedResult(cause error) Result {
	return Result{
		Layers: []Layer{
			{Name: "Layer 1", Color: "red", EntitiesCount: 10},
		},
		Dimensions: Dimensions{Width: 100, Height: 50, Units: "mm"},
		BoundingBox: BoundingBox{
			MinX: 0, MinY: 0, MaxX: 100, MaxY: 50, Area: 5000,
		},
		CuttingTime: 15,
		Complexity:  ComplexityModerate,
		TotalLength: 300,
		Warnings:    []string{fallbackWarning},
		Success:     false,
		Message:     cause.Error(),
	}
}
