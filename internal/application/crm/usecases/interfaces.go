package usecases

import (
	"context"
	"io"
)

// FileStorage keeps uploaded document bodies. Keys are generated by the caller.
type FileStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}
