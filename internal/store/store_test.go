package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nvoropaev/upscaler/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ArtifactStore {
	t.Helper()
	root := t.TempDir()
	s := New(filepath.Join(root, "uploads"), filepath.Join(root, "outputs"))
	require.NoError(t, s.EnsureDirs())
	return s
}

func TestArtifactStore_EnsureDirs_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureDirs())

	info, err := os.Stat(s.IncomingDir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestArtifactStore_PersistUpload(t *testing.T) {
	s := newTestStore(t)

	up, err := s.PersistUpload(strings.NewReader("payload"), "image", "photo.png", model.PNG)
	require.NoError(t, err)
	require.Equal(t, int64(7), up.Size)
	require.Equal(t, model.PNG, up.ContentType)
	require.True(t, strings.HasPrefix(up.Name, "image-"))
	require.True(t, strings.HasSuffix(up.Name, ".png"))

	data, err := os.ReadFile(up.Path)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestArtifactStore_PersistUpload_NilReader(t *testing.T) {
	s := newTestStore(t)

	_, err := s.PersistUpload(nil, "image", "photo.png", model.PNG)
	require.Error(t, err)
}

// Two simultaneous uploads of the same original name must land in distinct files.
func TestArtifactStore_PersistUpload_NoCollisions(t *testing.T) {
	s := newTestStore(t)

	const workers = 20
	var mu sync.Mutex
	paths := make(map[string]bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			up, err := s.PersistUpload(strings.NewReader("img"), "image", "photo.png", model.PNG)
			require.NoError(t, err)

			mu.Lock()
			paths[up.Path] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, paths, workers)
}

func TestArtifactStore_Delete_MissingFile(t *testing.T) {
	s := newTestStore(t)

	// уже отсутствующий файл - не ошибка
	s.Delete(filepath.Join(s.IncomingDir(), "already-gone.png"))
}

func TestArtifactStore_Delete(t *testing.T) {
	s := newTestStore(t)

	up, err := s.PersistUpload(strings.NewReader("img"), "image", "photo.png", model.PNG)
	require.NoError(t, err)

	s.Delete(up.Path)

	_, err = os.Stat(up.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestArtifactStore_Age(t *testing.T) {
	s := newTestStore(t)

	up, err := s.PersistUpload(strings.NewReader("img"), "image", "photo.png", model.PNG)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(up.Path, past, past))

	age, err := s.Age(up.Path)
	require.NoError(t, err)
	require.Greater(t, age, 59*time.Minute)
}

func TestArtifactStore_ListEntries(t *testing.T) {
	s := newTestStore(t)

	_, err := s.PersistUpload(strings.NewReader("img"), "image", "a.png", model.PNG)
	require.NoError(t, err)
	_, err = s.PersistUpload(strings.NewReader("img"), "image", "b.png", model.PNG)
	require.NoError(t, err)

	entries, err := s.ListEntries(s.IncomingDir())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = s.ListEntries(s.OutgoingDir())
	require.NoError(t, err)
	require.Empty(t, entries)
}
