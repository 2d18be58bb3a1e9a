package connector

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Retry calls fn until it succeeds, the retries in cfg are spent or ctx is
// done. A nil cfg means a single attempt.
func Retry[T any](ctx context.Context, cfg *RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	if cfg == nil {
		return fn(ctx)
	}

	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	backoff := cfg.Backoff
	if backoff < 1 {
		backoff = 2
	}

	var (
		v   T
		err error
	)
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		zerolog.Ctx(ctx).Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * backoff)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return v, err
}
