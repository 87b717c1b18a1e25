package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	submitKeyPrefix = "doggydate:submit:"
	submitWindow    = time.Minute
)

// RateLimiter counts login and registration submits per client in fixed
// one-minute windows. A client gets requestsPerMinute+burst submits per window.
type RateLimiter struct {
	client *Client
	limit  int64
}

func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
	}
}

// windowKey names the counter for client in the window containing now
func windowKey(client string, now time.Time) (string, time.Time) {
	start := now.Truncate(submitWindow)
	return fmt.Sprintf("%s%s:%d", submitKeyPrefix, client, start.Unix()), start.Add(submitWindow)
}

// Allow records one submit for client. It reports whether the submit fits
// the window, how many are left and when the window closes.
func (r *RateLimiter) Allow(ctx context.Context, client string) (bool, int, time.Time, error) {
	key, windowEnd := windowKey(client, time.Now())

	var count *redis.IntCmd
	_, err := r.client.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		// only the first submit of a window sets the expiry
		pipe.ExpireNX(ctx, key, submitWindow)
		return nil
	})
	if err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("count submit for %s: %w", client, err)
	}

	used := count.Val()
	left := r.limit - used
	if left < 0 {
		left = 0
	}
	return used <= r.limit, int(left), windowEnd, nil
}

// Reset forgets client's submits in the current window
func (r *RateLimiter) Reset(ctx context.Context, client string) error {
	key, _ := windowKey(client, time.Now())
	return r.client.rdb.Del(ctx, key).Err()
}
