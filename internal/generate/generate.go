// Package generate wraps the text-completion backend. The dialogue policy
// only sees the Generator interface; the concrete client talks to an
// Ollama server.
package generate

// #region imports
import (
	"context"
	"errors"
	"time"
)

// #endregion

// #region generator

// Generator is the black-box text completion capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// #endregion

// #region bounded

// ErrTimedOut reports that the backend did not answer within the bound.
var ErrTimedOut = errors.New("generate: timed out")

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 8 * time.Second

// Bounded wraps a Generator with a hard per-call deadline. The call runs
// in its own goroutine so a stuck backend can never block a turn past the
// bound; the abandoned goroutine exits when the backend call returns.
type Bounded struct {
	gen     Generator
	timeout time.Duration
}

// NewBounded wraps gen with the given timeout (DefaultTimeout when zero).
func NewBounded(gen Generator, timeout time.Duration) *Bounded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bounded{gen: gen, timeout: timeout}
}

// Generate implements Generator.
func (b *Bounded) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := b.gen.Generate(ctx, prompt, maxTokens)
		ch <- result{text, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return "", ErrTimedOut
		}
		return r.text, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimedOut
		}
		return "", ctx.Err()
	}
}

// #endregion
