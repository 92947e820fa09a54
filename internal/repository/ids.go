package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const idAttempts = 8

// idSuffix is swapped in tests.
var idSuffix = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewID returns prefix-<8 hex> that is not yet used in c. Call it inside the
// Update that stores the new entity.
func NewID[T any](ctx context.Context, c Collection[T], prefix string) (string, error) {
	for range idAttempts {
		id := prefix + "-" + idSuffix()
		_, err := c.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no free %s id after %d attempts", prefix, idAttempts)
}
