// Package ml talks to an external sentiment inference service.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"NewsPulse/internal/ports"
)

// Client scores text through a remote model exposing POST {"text"} -> {"polarity"}.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.SentimentScorer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

// Score returns the model polarity clamped to [-1, 1]. Empty text is neutral
// and never reaches the service.
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	var resp struct {
		Polarity *float64 `json:"polarity"`
	}
	if err := c.post(ctx, map[string]any{"text": text}, &resp); err != nil {
		return 0, err
	}
	if resp.Polarity == nil {
		return 0, fmt.Errorf("inference response has no polarity")
	}

	p := *resp.Polarity
	if math.IsNaN(p) {
		return 0, fmt.Errorf("inference returned NaN polarity")
	}
	return math.Max(-1, math.Min(1, p)), nil
}

func (c *Client) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
