package textgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name   string
	text   string
	err    error
	block  bool
	calls  int
	closed bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, _ string) (string, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func (s *stubProvider) Close() error {
	s.closed = true
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "gemini", text: "from gemini"}
	second := &stubProvider{name: "vertex", text: "from vertex"}
	chain := NewChain(quietLogger(), time.Second, first, second)

	out, provider, err := chain.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "from gemini", out)
	assert.Equal(t, "gemini", provider)
	assert.Zero(t, second.calls)
}

func TestChainFallsThroughOnError(t *testing.T) {
	first := &stubProvider{name: "gemini", err: errors.New("quota")}
	second := &stubProvider{name: "vertex", text: "from vertex"}
	chain := NewChain(quietLogger(), time.Second, first, second)

	out, provider, err := chain.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "from vertex", out)
	assert.Equal(t, "vertex", provider)
}

func TestChainEmptyResponseIsFailure(t *testing.T) {
	first := &stubProvider{name: "gemini", text: ""}
	second := &stubProvider{name: "vertex", text: "non-empty"}
	chain := NewChain(quietLogger(), time.Second, first, second)

	out, provider, err := chain.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "non-empty", out)
	assert.Equal(t, "vertex", provider)
	assert.Equal(t, 1, first.calls)
}

func TestChainExhausted(t *testing.T) {
	first := &stubProvider{name: "gemini", err: errors.New("quota")}
	second := &stubProvider{name: "vertex", err: errors.New("denied")}
	chain := NewChain(quietLogger(), time.Second, first, second)

	_, _, err := chain.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Contains(t, err.Error(), "denied")
}

func TestChainNoProviders(t *testing.T) {
	chain := NewChain(quietLogger(), time.Second)
	assert.Zero(t, chain.Len())

	_, _, err := chain.Complete(context.Background(), "p")
	assert.True(t, errors.Is(err, ErrExhausted))
}

func TestChainAttemptTimeout(t *testing.T) {
	slow := &stubProvider{name: "gemini", block: true}
	fallback := &stubProvider{name: "vertex", text: "rescued"}
	chain := NewChain(quietLogger(), 20*time.Millisecond, slow, fallback)

	out, provider, err := chain.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "rescued", out)
	assert.Equal(t, "vertex", provider)
}

func TestChainHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProvider{name: "gemini", text: "should not run"}
	chain := NewChain(quietLogger(), time.Second, p)

	_, _, err := chain.Complete(ctx, "p")
	require.Error(t, err)
	assert.Zero(t, p.calls)
}

func TestChainCloseClosesAll(t *testing.T) {
	first := &stubProvider{name: "gemini"}
	second := &stubProvider{name: "vertex"}
	chain := NewChain(quietLogger(), time.Second, first, second)

	require.NoError(t, chain.Close())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}
