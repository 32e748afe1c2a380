// Package template provides the bytes of the member registration template.
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/singleflight"

	"memberdoc/internal/storage"
)

// ErrTemplateUnavailable is returned when the template cannot be read from its source.
var ErrTemplateUnavailable = errors.New("template unavailable")

// Source yields the raw template document.
type Source interface {
	// Load reads the whole template. It is called once per generation request.
	Load(ctx context.Context) ([]byte, error)
	// Check verifies the template is reachable without reading it.
	Check(ctx context.Context) error
	// String describes where the template comes from, for logs.
	String() string
}

// FileSource reads the template from the local filesystem on every Load,
// so an edited template is picked up without a restart.
type FileSource struct {
	path string
}

// NewFileSource creates a Source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	return b, nil
}

func (s *FileSource) Check(_ context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrTemplateUnavailable, s.path)
	}
	return nil
}

func (s *FileSource) String() string {
	return "file:" + s.path
}

// ObjectSource reads the template from object storage.
// Concurrent loads share a single fetch.
type ObjectSource struct {
	store storage.Storage
	key   string
	sf    singleflight.Group
}

// NewObjectSource creates a Source reading key from store.
func NewObjectSource(store storage.Storage, key string) *ObjectSource {
	return &ObjectSource{store: store, key: key}
}

func (s *ObjectSource) Load(ctx context.Context) ([]byte, error) {
	v, err, _ := s.sf.Do(s.key, func() (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	// Callers own their copy; merges must not share a backing array.
	return bytes.Clone(v.([]byte)), nil
}

func (s *ObjectSource) fetch(ctx context.Context) ([]byte, error) {
	rc, _, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read object: %v", ErrTemplateUnavailable, err)
	}
	return b, nil
}

func (s *ObjectSource) Check(ctx context.Context) error {
	if _, err := s.store.Stat(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	return nil
}

func (s *ObjectSource) String() string {
	return "object:" + s.key
}
