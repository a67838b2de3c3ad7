/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api is the HTTP transport to the export service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/guilddash/pkg/logger"
	"github.com/carverauto/guilddash/pkg/models"
	"github.com/carverauto/guilddash/pkg/version"
)

const (
	PathAll      = "/api/all"
	PathRealtime = "/api/realtime"
	PathHealth   = "/api/health"

	DefaultBaseURL     = "http://localhost:5000"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 2048

	headerRequestID = "X-Request-ID"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	errBaseURLRequired  = errors.New("api base url is required")
	errBaseURLScheme    = errors.New("api base url must be http or https")
)

// HTTPClientConfig controls how the HTTP client behaves.
type HTTPClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    logger.Logger
	HTTP      *http.Client
}

type httpClient struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
	logger    logger.Logger
}

// NewHTTPClient constructs a Client backed by HTTP.
func NewHTTPClient(cfg HTTPClientConfig) (Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errBaseURLRequired
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", errBaseURLScheme, base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &httpClient{
		baseURL:   parsed,
		userAgent: ua,
		client:    hc,
		logger:    log,
	}, nil
}

func (c *httpClient) FetchServer(ctx context.Context) (*models.ServerSnapshot, error) {
	var out models.ServerSnapshot
	if err := c.get(ctx, PathAll, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) FetchRealtime(ctx context.Context) (*models.RealtimeSnapshot, error) {
	var out models.RealtimeSnapshot
	if err := c.get(ctx, PathRealtime, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := c.get(ctx, PathHealth, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) endpoint(p string) string {
	u := *c.baseURL
	u.Path = path.Join("/", u.Path, p)

	return u.String()
}

func (c *httpClient) get(ctx context.Context, p string, out any) error {
	requestID := uuid.NewString()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", p, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", p, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w %d from %s: %s", ErrUnexpectedStatus, resp.StatusCode, p, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", p, err)
	}

	c.logger.Debug().
		Str("path", p).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched")

	return nil
}
