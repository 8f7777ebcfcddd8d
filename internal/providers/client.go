// Package providers fetches schedules, rosters, injuries and game logs from
// the public basketball data APIs and maps them onto pipeline records.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/courtside/pkg/utils"
)

// Cache is the read-through store providers consult before calling out.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// StatusError is returned for non-200 upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error { return utils.ErrProviderUnavailable }

type requester struct {
	httpClient *http.Client
	logger     *logrus.Logger
	attempts   int
	backoff    time.Duration
	headers    map[string]string
}

// getJSON performs a GET with exponential backoff and decodes the body into
// target. 4xx responses other than 429 are not retried.
func (r *requester) getJSON(ctx context.Context, url string, target interface{}) error {
	attempts := r.attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := r.backoff * time.Duration(1<<uint(attempt-1))
			r.logger.WithFields(logrus.Fields{
				"url":     url,
				"attempt": attempt,
				"wait":    wait.String(),
				"error":   lastErr,
			}).Warn("Provider request failed, retrying")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = r.do(ctx, url, target)
		if lastErr == nil {
			return nil
		}

		var se *StatusError
		if errors.As(lastErr, &se) && se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

func (r *requester) do(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "courtside/1.0")
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func cacheGet(ctx context.Context, cache Cache, key string, dest interface{}) bool {
	if cache == nil {
		return false
	}
	return cache.Get(ctx, key, dest) == nil
}

func cacheSet(ctx context.Context, cache Cache, logger *logrus.Logger, key string, value interface{}, ttl time.Duration) {
	if cache == nil || ttl <= 0 {
		return
	}
	if err := cache.Set(ctx, key, value, ttl); err != nil {
		logger.WithField("key", key).WithError(err).Warn("Failed to cache provider response")
	}
}
