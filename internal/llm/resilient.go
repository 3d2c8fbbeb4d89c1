package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientProvider bounds every completion with a timeout and, when
// configured, retries a transient failure once. Generation calls use the
// retrying configuration; validation calls must not retry, since a duplicate
// judgement would risk double progress recording.
type ResilientProvider struct {
	provider Provider
	retrier  retry.Retry[*Response]
	timeout  time.Duration
	logger   *slog.Logger
}

// ResilientConfig holds configuration for the resilient wrapper
type ResilientConfig struct {
	// Timeout bounds each completion attempt (default: 30s)
	Timeout time.Duration

	// MaxAttempts is the total attempt budget; 2 permits a single retry,
	// 1 disables retrying (default: 1)
	MaxAttempts int

	// Logger for resilience events
	Logger *slog.Logger
}

// NewResilientProvider wraps a provider with timeout and retry discipline
func NewResilientProvider(provider Provider, cfg ResilientConfig) *ResilientProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	rp := &ResilientProvider{
		provider: provider,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}

	if cfg.MaxAttempts > 1 {
		rp.retrier = retry.New[*Response](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  time.Second,
			MaxDelay:      10 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryableError,
		})
	}

	return rp
}

func (p *ResilientProvider) Name() string {
	return p.provider.Name()
}

func (p *ResilientProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	operation := func(ctx context.Context) (*Response, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.provider.Complete(attemptCtx, req)
	}

	if p.retrier == nil {
		return operation(ctx)
	}

	resp, err := p.retrier.Do(ctx, operation)
	if err != nil && p.logger != nil {
		p.logger.Warn("completion failed after retries",
			"provider", p.provider.Name(),
			"error", err)
	}
	return resp, err
}

// isRetryableError reports whether an error looks like a transient transport
// or server failure worth one more attempt.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	retryable := []string{
		"status 429",
		"status 500",
		"status 502",
		"status 503",
		"status 504",
		"connection refused",
		"connection reset",
		"context deadline exceeded",
	}
	for _, pattern := range retryable {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
