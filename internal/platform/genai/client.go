// Package genai is a minimal client for the generateContent endpoint of the
// generative-language API.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/metrics"
)

var (
	ErrNotConfigured = errors.New("generative model API key is not configured")
	ErrUpstream      = errors.New("generative model error")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerateRequest struct {
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Contents          []Content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type Client interface {
	// GenerateContent returns the text of the first candidate.
	GenerateContent(ctx context.Context, req *GenerateRequest) (string, error)
}

type HTTPClient struct {
	cfg     config.GenAIConfig
	http    *http.Client
	metrics *metrics.Business
}

func NewHTTPClient(cfg config.GenAIConfig, m *metrics.Business) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{cfg: cfg, http: &http.Client{Timeout: timeout}, metrics: m}
}

func (c *HTTPClient) GenerateContent(ctx context.Context, req *GenerateRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	c.metrics.ObserveUpstream("genai", "generate_content", metrics.MillisecondsSince(start))
	if err != nil {
		// the URL carries the key, keep it out of the message
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrUpstream, e.Error.Message)
		}
		return "", fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: invalid response: %v", ErrUpstream, err)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrUpstream)
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
