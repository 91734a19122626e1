// Package usage provides best-effort per-account usage counters. Increments
// are a metering side channel, never part of a request's success or failure.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Metric names follow the platform's dotted usage.<area>.<action> convention.
const MetricEmailSends = "usage.email.sends"

// Counter increments a named metric for an account.
type Counter interface {
	Increment(ctx context.Context, accountID uuid.UUID, metric string, n int64) error
}

type redisCounter struct{ rc *redis.Client }

// NewRedisCounter creates a Counter backed by Redis. Counters are bucketed by
// calendar month so billing reads can expire old keys independently.
func NewRedisCounter(rc *redis.Client) Counter {
	return &redisCounter{rc: rc}
}

func (c *redisCounter) Increment(ctx context.Context, accountID uuid.UUID, metric string, n int64) error {
	key := fmt.Sprintf("usage:%s:%s:%s", accountID, metric, time.Now().UTC().Format("2006-01"))
	return c.rc.IncrBy(ctx, key, n).Err()
}

type nopCounter struct{}

// NewNop returns a Counter that discards increments, useful for tests.
func NewNop() Counter { return nopCounter{} }

func (nopCounter) Increment(context.Context, uuid.UUID, string, int64) error { return nil }
