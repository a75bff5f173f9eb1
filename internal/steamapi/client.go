// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

/*
client.go - Shared HTTP plumbing for the upstream gateways

All five gateways (Steam storefront, Steam Web API, SteamSpy, ProtonDB,
IsThereAnyDeal) funnel their requests through the helpers here:

  - Automatic HTTP 429 handling with exponential backoff (1s, 2s, 4s, 8s, 16s)
  - Retry-After header support (RFC 6585)
  - JSON decoding via goccy/go-json
  - Bounded error-body reads for diagnostics

Each gateway records request counts and latency through the metrics package
under its own gateway label.
*/
package steamapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// maxErrorBodySize bounds how much of an error response is read back for
// diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

const (
	maxRetries     = 5
	retryBaseDelay = 1 * time.Second
)

// errNotFound marks a gateway miss (HTTP 404 or an explicit "not found"
// envelope). Callers translate it into a nil result rather than a failure.
var errNotFound = fmt.Errorf("steamapi: not found")

func readBodyForError(r io.Reader) []byte {
	limited := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// doRequestWithBackoff performs an HTTP request, retrying HTTP 429 responses
// with exponential backoff. The context cancels both requests and waits.
func doRequestWithBackoff(ctx context.Context, client *http.Client, method, reqURL string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", maxRetries)
			break
		}

		delay := retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// getJSON fetches reqURL and decodes the JSON body into result.
// Returns errNotFound on HTTP 404 so callers can treat misses as absent data.
func getJSON(ctx context.Context, client *http.Client, reqURL string, result interface{}) error {
	resp, err := doRequestWithBackoff(ctx, client, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// postJSON sends payload as a JSON body and decodes the JSON response into result.
func postJSON(ctx context.Context, client *http.Client, reqURL string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := doRequestWithBackoff(ctx, client, http.MethodPost, reqURL, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
