package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loykin/xentral/internal/common"
)

// Policy bounds retries of call-history writes. Xentral requests themselves are never retried.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
	// Transient lists lower-case error fragments that are worth another try.
	Transient []string
}

// Default retries busy or locked databases and dropped connections three times.
func Default() Policy {
	return Policy{
		Attempts: 3,
		Delay:    50 * time.Millisecond,
		MaxDelay: time.Second,
		Transient: []string{
			"database is locked",
			"database table is locked",
			"sqlite_busy",
			"connection refused",
			"connection reset",
			"broken pipe",
			"deadlock",
		},
	}
}

func (p Policy) transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range p.Transient {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

// backoff doubles Delay per attempt, capped at MaxDelay.
func (p Policy) backoff(attempt int) time.Duration {
	d := p.Delay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return d
}

// Do runs op until it succeeds, fails with a non-transient error, or the attempts run out.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	logger := common.GetLogger().WithComponent("store-retry")

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(ctx); err == nil {
			if attempt > 1 {
				logger.Info("store write succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if !p.transient(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		delay := p.backoff(attempt)
		logger.Warn("store write failed, retrying", "error", err, "attempt", attempt, "max_attempts", attempts, "retry_delay", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("store write cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("store write failed after %d attempts: %w", attempts, err)
}
