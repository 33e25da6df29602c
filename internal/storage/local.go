package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalService keeps pictures on the local filesystem under a root directory.
type LocalService struct {
	root      string
	keyPrefix string
}

func NewLocalService(root, keyPrefix string) (*LocalService, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalService{root: filepath.Clean(root), keyPrefix: keyPrefix}, nil
}

func (s *LocalService) Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := NewKey(s.keyPrefix, name)
	dst, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object %s: %w", key, err)
	}
	_, err = io.Copy(f, body)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close object %s: %w", key, closeErr)
	}
	return key, nil
}

func (s *LocalService) Open(ctx context.Context, key string) (*Object, error) {
	src, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrObjectNotFound
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Body: f, Size: info.Size(), ContentType: contentType}, nil
}

func (s *LocalService) Delete(ctx context.Context, key string) error {
	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (s *LocalService) pathFor(key string) (string, error) {
	clean, ok := CleanKey(key)
	if !ok {
		return "", ErrObjectNotFound
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if rel, err := filepath.Rel(s.root, full); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrObjectNotFound
	}
	return full, nil
}

var _ Service = (*LocalService)(nil)
