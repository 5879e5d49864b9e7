// Package retry bounds the number of attempts made against an unreliable call.
package retry

import (
	"context"
	"time"

	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	// DefaultAttempts is the number of attempts when a caller does not choose one.
	DefaultAttempts = 3

	// ExhaustedMessage is reported once every attempt has failed.
	ExhaustedMessage = "Failed to generate a response after multiple attempts."
)

// Policy describes how many sequential attempts to make and how long to wait between them.
type Policy struct {
	Attempts int
	Delay    time.Duration // Zero retries immediately
	Logger   zerolog.Logger
}

// WithAttempts returns a copy of p making n attempts.
func (p Policy) WithAttempts(n int) Policy {
	p.Attempts = n
	return p
}

func (p Policy) newBackOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.Delay > 0 {
		b = backoff.NewConstantBackOff(p.Delay)
	}
	// WithMaxRetries counts retries, not attempts.
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.Attempts-1)), ctx)
}

// Do calls op until it succeeds or the policy runs out of attempts.
// Every failed attempt is logged as a warning. When all attempts fail the
// returned error is a retry-exhausted *llm.Error carrying ExhaustedMessage;
// individual failures are not surfaced beyond the log.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.Attempts <= 0 {
		p.Logger.Warn().Int("attempts", p.Attempts).Msg("No attempts allowed, giving up without calling")
		return zero, llm.NewRetryExhaustedError(ExhaustedMessage, nil)
	}

	attempt := 0
	result, err := backoff.RetryWithData(func() (T, error) {
		attempt++
		v, err := op(ctx)
		if err != nil {
			p.Logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", p.Attempts).
				Err(err).
				Msg("Attempt failed")
			return zero, err
		}
		return v, nil
	}, p.newBackOff(ctx))
	if err != nil {
		p.Logger.Error().Int("attempts", attempt).Err(err).Msg("All attempts failed")
		return zero, llm.NewRetryExhaustedError(ExhaustedMessage, err)
	}

	if attempt > 1 {
		p.Logger.Info().Int("attempt", attempt).Msg("Attempt succeeded after retrying")
	}
	return result, nil
}
