// Package workspace hands out request-scoped temporary files in a shared directory.
//
// File names derive from a random UUID, so concurrent requests never collide,
// and Release removes everything the workspace handed out.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Workspace tracks the temporary paths created for one request.
type Workspace struct {
	dir string
	id  string
	log *zap.Logger

	mu    sync.Mutex
	paths []string
}

// Acquire creates baseDir if needed and returns a new workspace inside it.
func Acquire(baseDir string, log *zap.Logger) (*Workspace, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	return &Workspace{dir: abs, id: uuid.NewString(), log: log}, nil
}

// ID is the token shared by every file of this workspace.
func (w *Workspace) ID() string {
	return w.id
}

// Path reserves the absolute path <dir>/<id><suffix>. The file is not created.
func (w *Workspace) Path(suffix string) string {
	p := filepath.Join(w.dir, w.id+suffix)
	w.mu.Lock()
	w.paths = append(w.paths, p)
	w.mu.Unlock()
	return p
}

// WriteFile reserves a path for suffix and writes data to it.
func (w *Workspace) WriteFile(suffix string, data []byte) (string, error) {
	p := w.Path(suffix)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return p, nil
}

// Release removes every reserved path. Paths that were never created are skipped;
// other failures are logged and otherwise ignored.
func (w *Workspace) Release() {
	w.mu.Lock()
	paths := w.paths
	w.paths = nil
	w.mu.Unlock()

	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.log.Warn("temp file cleanup failed", zap.String("path", p), zap.Error(err))
			continue
		}
		w.log.Debug("temp file removed", zap.String("path", p))
	}
}
