package ai

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docaudit/internal/core/domain"
)

type scriptedProvider struct {
	calls   atomic.Int32
	replies []func(ctx context.Context) (string, error)
}

func (p *scriptedProvider) Complete(ctx context.Context, _ string) (string, error) {
	i := int(p.calls.Add(1)) - 1
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	return p.replies[i](ctx)
}

func (p *scriptedProvider) ModelName() string { return "scripted" }
func (p *scriptedProvider) Close() error      { return nil }

func reply(s string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return s, nil }
}

func fail(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

func noSleep(g *Gateway) *Gateway {
	g.sleep = func(context.Context, time.Duration) error { return nil }
	return g
}

func TestGateway_SingleAttemptByDefault(t *testing.T) {
	p := &scriptedProvider{replies: []func(context.Context) (string, error){
		fail(&domain.GatewayError{StatusCode: 503, Err: errors.New("unavailable")}),
		reply("ok"),
	}}
	g := noSleep(NewGateway(p, GatewayConfig{}))

	_, err := g.Complete(context.Background(), "x")
	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, 503, gwErr.StatusCode)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestGateway_RetriesRetryableFailures(t *testing.T) {
	p := &scriptedProvider{replies: []func(context.Context) (string, error){
		fail(&domain.GatewayError{StatusCode: 429, Err: errors.New("slow down")}),
		fail(&domain.GatewayError{Err: errors.New("connection reset")}),
		reply("ok"),
	}}
	var waits []time.Duration
	g := NewGateway(p, GatewayConfig{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond})
	g.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	got, err := g.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.EqualValues(t, 3, p.calls.Load())
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, waits)
}

func TestGateway_DoesNotRetryClientErrors(t *testing.T) {
	p := &scriptedProvider{replies: []func(context.Context) (string, error){
		fail(&domain.GatewayError{StatusCode: 401, Err: errors.New("bad key")}),
	}}
	g := noSleep(NewGateway(p, GatewayConfig{MaxRetries: 5}))

	_, err := g.Complete(context.Background(), "x")
	require.Error(t, err)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestGateway_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("provider exploded")
	p := &scriptedProvider{replies: []func(context.Context) (string, error){fail(cause)}}
	g := NewGateway(p, GatewayConfig{})

	_, err := g.Complete(context.Background(), "x")
	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.ErrorIs(t, err, cause)
}

func TestGateway_TimeoutIsGatewayError(t *testing.T) {
	p := &scriptedProvider{replies: []func(context.Context) (string, error){
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}}
	g := NewGateway(p, GatewayConfig{Timeout: 20 * time.Millisecond})

	_, err := g.Complete(context.Background(), "x")
	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateway_StopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &scriptedProvider{replies: []func(context.Context) (string, error){
		func(context.Context) (string, error) {
			cancel()
			return "", &domain.GatewayError{StatusCode: 500, Err: errors.New("boom")}
		},
	}}
	g := noSleep(NewGateway(p, GatewayConfig{MaxRetries: 3}))

	_, err := g.Complete(ctx, "x")
	require.Error(t, err)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestGateway_RateLimit(t *testing.T) {
	p := &scriptedProvider{replies: []func(context.Context) (string, error){reply("ok")}}
	g := NewGateway(p, GatewayConfig{RateLimit: 20})
	require.NotNil(t, g.limiter)

	start := time.Now()
	for i := 0; i < 25; i++ {
		_, err := g.Complete(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestGateway_Delegates(t *testing.T) {
	g := NewGateway(&scriptedProvider{replies: []func(context.Context) (string, error){reply("ok")}}, GatewayConfig{})
	assert.Equal(t, "scripted", g.ModelName())
	assert.NoError(t, g.Close())
	assert.Nil(t, g.limiter)
}
