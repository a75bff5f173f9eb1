// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steamapi

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

// BreakerStoreClient wraps StoreClient with a circuit breaker. The storefront
// degrades in bulk when it degrades at all, so after a sustained failure rate
// the breaker fails enrichment items fast instead of burning the run budget
// on timeouts.
//
// The breaker uses real time for its interval and timeout; unit tests should
// exercise the wrapped client directly.
type BreakerStoreClient struct {
	client *StoreClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerStoreClient wraps a storefront client with a circuit breaker that
// opens at a 60% failure rate over at least 10 requests, allows 3 probes in
// half-open state, and retries the upstream after 2 minutes.
func NewBreakerStoreClient(client *StoreClient) *BreakerStoreClient {
	cbName := "steam-store"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening storefront circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
		},
	})

	return &BreakerStoreClient{client: client, cb: cb, name: cbName}
}

func (b *BreakerStoreClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

// castResult type-casts a breaker result, tolerating nil results from
// gateway misses.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// AppDetails fetches catalog details with circuit breaker protection.
func (b *BreakerStoreClient) AppDetails(ctx context.Context, appID int64) (*steam.AppDetails, error) {
	return castResult[steam.AppDetails](b.execute(func() (interface{}, error) {
		details, err := b.client.AppDetails(ctx, appID)
		if details == nil {
			return nil, err
		}
		return details, err
	}))
}

// AppReviews fetches the review summary with circuit breaker protection.
func (b *BreakerStoreClient) AppReviews(ctx context.Context, appID int64) (*steam.QuerySummary, error) {
	return castResult[steam.QuerySummary](b.execute(func() (interface{}, error) {
		summary, err := b.client.AppReviews(ctx, appID)
		if summary == nil {
			return nil, err
		}
		return summary, err
	}))
}

// ListingAppIDs fetches a named search listing with circuit breaker protection.
func (b *BreakerStoreClient) ListingAppIDs(ctx context.Context, filter string, count int) ([]int64, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.ListingAppIDs(ctx, filter, count)
	})
	if err != nil {
		return nil, err
	}
	ids, _ := result.([]int64)
	return ids, nil
}

// FeaturedCategories fetches front-page app ids with circuit breaker protection.
func (b *BreakerStoreClient) FeaturedCategories(ctx context.Context) ([]int64, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.FeaturedCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	ids, _ := result.([]int64)
	return ids, nil
}
