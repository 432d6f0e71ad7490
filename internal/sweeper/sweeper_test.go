package sweeper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvoropaev/upscaler/internal/store"
	"github.com/stretchr/testify/require"
)

func TestSweeper_SweepOnce(t *testing.T) {
	root := t.TempDir()
	incoming := filepath.Join(root, "uploads")
	outgoing := filepath.Join(root, "outputs")

	strg := store.New(incoming, outgoing)
	require.NoError(t, strg.EnsureDirs())

	oldFile := filepath.Join(incoming, "image-1-dead.png")
	newFile := filepath.Join(incoming, "image-2-live.png")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newFile, []byte("new"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	sw := New(strg, []string{incoming, outgoing}, time.Hour, 30*time.Minute)
	sw.SweepOnce()

	// ровно один файл старше окна - и ровно он и удален
	_, err := os.Stat(oldFile)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(newFile)
	require.NoError(t, err)
}

func TestSweeper_SweepOnce_BothDirs(t *testing.T) {
	root := t.TempDir()
	incoming := filepath.Join(root, "uploads")
	outgoing := filepath.Join(root, "outputs")

	strg := store.New(incoming, outgoing)
	require.NoError(t, strg.EnsureDirs())

	orphanUpload := filepath.Join(incoming, "image-1-gone.png")
	orphanResult := filepath.Join(outgoing, "upscaled_image-1-gone.png")
	require.NoError(t, os.WriteFile(orphanUpload, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(orphanResult, []byte("b"), 0o644))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(orphanUpload, past, past))
	require.NoError(t, os.Chtimes(orphanResult, past, past))

	sw := New(strg, []string{incoming, outgoing}, time.Hour, 30*time.Minute)
	sw.SweepOnce()

	_, err := os.Stat(orphanUpload)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(orphanResult)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// A missing directory must not abort sweeping the remaining ones.
func TestSweeper_SweepOnce_BadDirSkipped(t *testing.T) {
	root := t.TempDir()
	incoming := filepath.Join(root, "uploads")
	outgoing := filepath.Join(root, "outputs")

	strg := store.New(incoming, outgoing)
	require.NoError(t, strg.EnsureDirs())

	orphan := filepath.Join(outgoing, "upscaled_image-1.png")
	require.NoError(t, os.WriteFile(orphan, []byte("b"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(orphan, past, past))

	sw := New(strg, []string{filepath.Join(root, "no-such-dir"), outgoing}, time.Hour, 30*time.Minute)
	sw.SweepOnce()

	_, err := os.Stat(orphan)
	require.ErrorIs(t, err, os.ErrNotExist)
}
