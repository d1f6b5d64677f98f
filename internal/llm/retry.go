package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// RetryPolicy bounds a completion call. Timeout applies to each attempt,
// MaxRetries counts attempts after the first one.
type RetryPolicy struct {
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
}

// Retrying decorates a Client with a per-attempt timeout and exponential
// backoff on transient failures.
type Retrying struct {
	next   Client
	policy RetryPolicy
	logger *zap.Logger
}

func NewRetrying(next Client, policy RetryPolicy, logger *zap.Logger) *Retrying {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{next: next, policy: policy, logger: logger}
}

func (r *Retrying) Generate(ctx context.Context, messages []Message) (Response, error) {
	var out Response
	attempt := 0
	op := func() error {
		attempt++
		attemptCtx := ctx
		if r.policy.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
			defer cancel()
		}
		resp, err := r.next.Generate(attemptCtx, messages)
		if err == nil {
			out = resp
			return nil
		}
		// caller cancellation is final
		if ctx.Err() != nil || !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Warn("completion attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, r.backOff(ctx), notify); err != nil {
		return Response{}, err
	}
	return out, nil
}

func (r *Retrying) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		exp.InitialInterval = r.policy.InitialInterval
	}
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(r.policy.MaxRetries, 0))), ctx)
}

// IsTransient reports whether err is worth another attempt: network errors,
// attempt timeouts, and provider responses with 408, 429 or 5xx.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
