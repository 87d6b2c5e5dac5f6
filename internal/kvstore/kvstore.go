// Package kvstore abstracts the small persistent key-value storage the
// client keeps between sessions: the serialized cart and the auth
// token.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
