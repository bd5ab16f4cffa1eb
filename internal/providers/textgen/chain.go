package textgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrExhausted is returned when every provider in the chain failed.
// Callers fall back to offline templates at that point.
var ErrExhausted = errors.New("textgen: all providers failed")

// Chain tries providers in a fixed order until one returns non-empty
// text. Each attempt gets its own timeout; there are no retries beyond
// the provider order.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	log       *logrus.Logger
}

func NewChain(log *logrus.Logger, timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: timeout, log: log}
}

// Len reports how many live providers the chain carries.
func (c *Chain) Len() int { return len(c.providers) }

// Complete runs the fallback chain and reports which provider answered.
func (c *Chain) Complete(ctx context.Context, prompt string) (text, provider string, err error) {
	if len(c.providers) == 0 {
		return "", "", ErrExhausted
	}

	var lastErr error
	for _, p := range c.providers {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, aerr := p.Complete(attemptCtx, prompt)
		cancel()

		if aerr == nil && out != "" {
			return out, p.Name(), nil
		}
		if aerr == nil {
			aerr = errors.New("empty response")
		}
		lastErr = aerr
		c.log.WithFields(logrus.Fields{
			"provider": p.Name(),
			"error":    aerr.Error(),
		}).Warn("textgen provider attempt failed")
	}
	return "", "", fmt.Errorf("%w: %v", ErrExhausted, lastErr)
}

func (c *Chain) Close() error {
	var first error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
