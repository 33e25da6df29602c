package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a stored picture does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object is an opened stored picture. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Service stores uploaded pictures and serves them back by key.
type Service interface {
	// Save stores body under a fresh key derived from name and returns that key.
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a collision-free object key that keeps the extension of name.
func NewKey(prefix, name string) string {
	key := uuid.NewString() + strings.ToLower(path.Ext(name))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// CleanKey normalizes a client-supplied key, rejecting ones that escape the store root.
func CleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", false
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, "\\") {
		return "", false
	}
	return clean, true
}
