package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/ECdison6227/flashcraft/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Part and Content mirror the upstream generateContent message schema.
type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Instruction struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is the upstream request body. Contents and
// SystemInstruction are typed loosely so callers can forward raw client
// JSON unchanged or build structured prompts.
type GenerateRequest struct {
	Contents          any `json:"contents"`
	SystemInstruction any `json:"systemInstruction,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logrus.Entry
}

type loggingTransport struct {
	log *logrus.Entry
}

func NewClient(logger *logrus.Logger, cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: &loggingTransport{log: logger.WithField("component", "gemini_transport")},
		},
		baseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:  cfg.GeminiAPIKey,
		log:     logger.WithField("component", "gemini_client"),
	}
}

// HasKey reports whether the server-side API credential is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// GenerateContent forwards one payload to the upstream model. Single-shot:
// no retry or backoff in this layer, the caller owns that. The returned
// response body is the caller's to close.
func (c *Client) GenerateContent(ctx context.Context, model string, payload GenerateRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode upstream payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "FlashCraftProxy/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("model", model).Error("Upstream request failed")
		metrics.UpstreamDuration.WithLabelValues(model, "error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	metrics.UpstreamDuration.WithLabelValues(model, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	return resp, nil
}

// RoundTrip logs upstream calls by path only; the URL query carries the API
// key and must never reach the logs.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.log.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
	})

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractText pulls the first candidate's first text part out of an upstream
// response body. An error means the body was not valid JSON; a missing or
// empty candidate list yields an empty string.
func ExtractText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode upstream response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
