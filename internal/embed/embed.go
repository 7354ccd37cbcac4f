// Package embed turns text into fixed-length vectors for similarity search.
package embed

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned (wrapped) whenever text could not be embedded.
var ErrUnavailable = errors.New("embedding unavailable")

// Embedder maps text to vectors. Implementations must return vectors of the
// same dimension for every input and must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds while
// keeping the cause reachable.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// checkCount guards against backends that silently drop inputs.
func checkCount(got, want int) error {
	if got != want {
		return Unavailable(fmt.Errorf("got %d vectors for %d texts", got, want))
	}
	return nil
}

// first embeds a single text through EmbedBatch.
func first(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(vecs), 1); err != nil {
		return nil, err
	}
	return vecs[0], nil
}
