package cart

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned by a StateStore when nothing is stored under the key.
var ErrStateNotFound = errors.New("cart state not found")

// StateStore is the durable key-value store behind Persistence.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
