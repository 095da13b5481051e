// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid wraps the public ORCID API: researcher search by name
// variants, profile fetch, and works listing. All operations are read-only
// and idempotent. Outbound calls share a bounded semaphore so concurrent
// rows cannot overwhelm the remote index.
package orcid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Idriss-Abidi/ExpertAI/internal/httputil"
	"github.com/Idriss-Abidi/ExpertAI/pkg/types"
)

// DefaultBaseURL is the public ORCID API endpoint. Declared as a var so
// tests can substitute an httptest server.
var DefaultBaseURL = "https://pub.orcid.org/v3.0"

// ErrDirectoryUnavailable reports that the remote directory could not be
// reached or answered with a non-success status. Search callers treat it as
// zero candidates; topic synthesis treats it as no evidence. It is never a
// fatal pipeline error.
var ErrDirectoryUnavailable = errors.New("identity directory unavailable")

// Client queries the ORCID public API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int

	// sem caps in-flight requests across all callers of this client.
	sem *semaphore.Weighted
}

// NewClient builds a Client from config. The per-request timeout and the
// shared concurrency cap both come from cfg.
func NewClient(cfg types.DirectoryConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		maxRetries: 3,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// get performs one rate-capped GET against the directory and returns the
// response body on HTTP 200. Every other outcome maps to
// ErrDirectoryUnavailable with the underlying cause attached.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrDirectoryUnavailable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrDirectoryUnavailable, err)
	}
	return body, nil
}
