package translation

import (
	"context"
	"errors"
	"log"
	"time"
)

const (
	DefaultMaxRetries  = 3
	DefaultBackoffStep = 5 * time.Second
)

// RetryPolicy retries rate-limited calls with a linearly growing delay:
// retry n waits n × Step. Other failures are returned immediately.
type RetryPolicy struct {
	MaxRetries int
	Step       time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns 3 retries at 5s, 10s, 15s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, Step: DefaultBackoffStep, Sleep: sleepContext}
}

// Delay returns the wait before retry number attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.Step
}

// Do runs call once plus up to MaxRetries retries while it keeps failing with ErrRateLimited.
func (p RetryPolicy) Do(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	out, err := call(ctx)
	for attempt := 1; err != nil && errors.Is(err, ErrRateLimited) && attempt <= p.MaxRetries; attempt++ {
		delay := p.Delay(attempt)
		log.Printf("[Translate Retry] Rate limited, waiting %v before retry %d/%d", delay, attempt, p.MaxRetries)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
		out, err = call(ctx)
	}
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
