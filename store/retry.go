package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/backoff/v2"

	"github.com/venique/rooster/log"
)

// RetryPolicy bounds the exponential backoff applied to store operations.
type RetryPolicy struct {
	MaxRetries  int
	MinInterval time.Duration
	MaxInterval time.Duration
	// Retryable decides which errors get another attempt. Defaults to
	// IsTransient.
	Retryable func(error) bool
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = 4
	}
	if p.MinInterval <= 0 {
		p.MinInterval = 250 * time.Millisecond
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = 5 * time.Second
	}
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// Retry wraps a store so every operation is retried with bounded exponential
// backoff plus jitter on transient failures. The same contract covers the
// local CSV file and the SQLite backend, so swapping backends never changes
// retry behavior.
func Retry(s Store, policy RetryPolicy) Store {
	return &retryStore{next: s, policy: policy.withDefaults()}
}

type retryStore struct {
	next   Store
	policy RetryPolicy
}

func (s *retryStore) Append(ctx context.Context, rec Record) error {
	return s.run(ctx, "append", func() error {
		return s.next.Append(ctx, rec)
	})
}

func (s *retryStore) All(ctx context.Context) (header []string, rows [][]string, err error) {
	err = s.run(ctx, "read", func() (err error) {
		header, rows, err = s.next.All(ctx)
		return
	})
	return
}

func (s *retryStore) Close() error { return s.next.Close() }

func (s *retryStore) run(ctx context.Context, op string, do func() error) error {
	p := backoff.Exponential(
		backoff.WithMinInterval(s.policy.MinInterval),
		backoff.WithMaxInterval(s.policy.MaxInterval),
		backoff.WithJitterFactor(0.1),
		backoff.WithMaxRetries(s.policy.MaxRetries),
	)

	var lastErr error
	attempt := 0
	b := p.Start(ctx)
	for backoff.Continue(b) {
		attempt++
		err := do()
		if err == nil {
			return nil
		}
		// A canceled session should not keep hammering the backend.
		if ctx.Err() != nil {
			return err
		}
		if !s.policy.Retryable(err) {
			return err
		}
		lastErr = err
		log.Warnf("store.%s: attempt %d failed, will retry: %s", op, attempt, err)
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}
