package ai

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docaudit/internal/core/domain"
	"github.com/custodia-labs/docaudit/internal/core/ports/driven"
	"github.com/custodia-labs/docaudit/internal/logger"
)

var log = logger.Named("ai")

// Ensure Gateway implements the interface.
var _ driven.CompletionProvider = (*Gateway)(nil)

// Default gateway values.
const (
	DefaultTimeout        = 120 * time.Second
	DefaultInitialBackoff = time.Second
	maxBackoff            = 30 * time.Second
)

// GatewayConfig configures the Gateway decorator.
type GatewayConfig struct {
	// Timeout bounds each attempt (default: 120s).
	Timeout time.Duration

	// RateLimit is the maximum number of calls per second. Zero disables limiting.
	RateLimit float64

	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries int

	// InitialBackoff is the wait before the first retry, doubled each time (default: 1s).
	InitialBackoff time.Duration
}

// Gateway wraps a provider with timeouts, rate limiting and retries.
// Every error it returns is a *domain.GatewayError.
type Gateway struct {
	provider   driven.CompletionProvider
	timeout    time.Duration
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewGateway wraps provider.
func NewGateway(provider driven.CompletionProvider, cfg GatewayConfig) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	g := &Gateway{
		provider:   provider,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.InitialBackoff,
		sleep:      sleepContext,
	}
	if cfg.RateLimit > 0 {
		burst := int(math.Ceil(cfg.RateLimit))
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return g
}

// Complete calls the wrapped provider, retrying transport errors, 429 and 5xx.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	wait := g.backoff
	for attempt := 0; ; attempt++ {
		reply, err := g.attempt(ctx, prompt)
		if err == nil {
			return reply, nil
		}

		var gwErr *domain.GatewayError
		if !errors.As(err, &gwErr) {
			gwErr = &domain.GatewayError{Err: err}
		}
		if attempt >= g.maxRetries || !gwErr.Retryable() || ctx.Err() != nil {
			return "", gwErr
		}

		log.Warn("AI call failed (attempt %d/%d), retrying in %s: %v",
			attempt+1, g.maxRetries+1, wait, gwErr)
		if err := g.sleep(ctx, wait); err != nil {
			return "", &domain.GatewayError{Err: err}
		}
		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
}

func (g *Gateway) attempt(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", &domain.GatewayError{Err: err}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.provider.Complete(callCtx, prompt)
	if err != nil {
		return "", err
	}
	log.Debug("AI call to %s returned %d bytes in %s", g.provider.ModelName(), len(reply), time.Since(start))
	return reply, nil
}

// ModelName returns the name of the wrapped model.
func (g *Gateway) ModelName() string {
	return g.provider.ModelName()
}

// Close releases the wrapped provider.
func (g *Gateway) Close() error {
	return g.provider.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
