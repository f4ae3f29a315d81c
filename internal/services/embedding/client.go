// internal/services/embedding/client.go
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"applicant-ranker/internal/common/config"
	commonhttp "applicant-ranker/internal/common/http"
	"applicant-ranker/internal/common/logger"
	"applicant-ranker/internal/common/metrics"
)

// Client talks to an Ollama-compatible embedding endpoint. Vectors are
// returned as-is; the cascade L2-normalizes before comparing, so the
// service is not required to.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	http    *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.EmbeddingConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		timeout: timeout,
		http:    commonhttp.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "embedding"}),
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the embedding of one text. A nil vector with nil error is a
// soft failure the caller treats as a tier miss.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ExternalCallFailures.WithLabelValues("embedding").Inc()
		c.logger.Warn("embedding call failed", map[string]interface{}{
			"textCount": len(texts),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ExternalCallFailures.WithLabelValues("embedding").Inc()
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ExternalCallFailures.WithLabelValues("embedding").Inc()
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	metrics.ExternalCallDuration.WithLabelValues("embedding").Observe(time.Since(start).Seconds())
	c.logger.Debug("embedding batch completed", map[string]interface{}{
		"textCount":   len(texts),
		"vectorCount": len(out.Embeddings),
		"elapsedMs":   time.Since(start).Milliseconds(),
	})

	return out.Embeddings, nil
}
