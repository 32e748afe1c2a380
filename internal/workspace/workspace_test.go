package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAcquire_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "temp")

	ws, err := Acquire(base, nil)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NotEmpty(t, ws.ID())
}

func TestWorkspace_UniqueNames(t *testing.T) {
	base := t.TempDir()
	a, err := Acquire(base, nil)
	require.NoError(t, err)
	b, err := Acquire(base, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path(".docx"), b.Path(".docx"))
}

func TestWorkspace_Release(t *testing.T) {
	base := t.TempDir()
	ws, err := Acquire(base, nil)
	require.NoError(t, err)

	docx, err := ws.WriteFile(".docx", []byte("doc"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(docx), ws.ID()))

	profile := ws.Path("-profile")
	require.NoError(t, os.MkdirAll(filepath.Join(profile, "user"), 0o755))
	ws.Path(".pdf") // reserved but never written

	ws.Release()

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// second release is a no-op
	ws.Release()
}

func TestWorkspace_ReleaseLogsFailures(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	core, logs := observer.New(zapcore.WarnLevel)
	base := t.TempDir()
	ws, err := Acquire(base, zap.New(core))
	require.NoError(t, err)

	p, err := ws.WriteFile(".docx", []byte("doc"))
	require.NoError(t, err)
	require.NoError(t, os.Chmod(base, 0o500))
	defer os.Chmod(base, 0o755)

	ws.Release()

	assert.Equal(t, 1, logs.FilterMessage("temp file cleanup failed").Len())
	_, err = os.Stat(p)
	assert.NoError(t, err)
}
