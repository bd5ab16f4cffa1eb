package textgen

import "context"

// Provider is a single text-generation backend. Complete returns the
// model's full text response for one prompt. An empty response is an
// error: callers rely on non-empty text to consider an attempt successful.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}
