// Package store manages the two transient directories holding uploads and
// processed artifacts
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nvoropaev/upscaler/internal/model"
	"github.com/wb-go/wbf/zlog"
)

type ArtifactStore struct {
	incomingDir string
	outgoingDir string
}

func New(incomingDir, outgoingDir string) *ArtifactStore {
	return &ArtifactStore{
		incomingDir: incomingDir,
		outgoingDir: outgoingDir,
	}
}

func (s *ArtifactStore) IncomingDir() string { return s.incomingDir }
func (s *ArtifactStore) OutgoingDir() string { return s.outgoingDir }

// EnsureDirs creates both managed directories including missing parents.
// A failure here is fatal to startup, nothing else in the app can work.
func (s *ArtifactStore) EnsureDirs() error {
	for _, dir := range []string{s.incomingDir, s.outgoingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PersistUpload streams an upload into a new collision-free file in the
// incoming directory. Uniqueness comes from a nanosecond timestamp plus a
// random suffix, so concurrent uploads of the same original name never clash.
func (s *ArtifactStore) PersistUpload(r io.Reader, field, origName, cType string) (*model.UploadedFile, error) {
	if r == nil {
		return nil, errors.New("nil reader passed to store.PersistUpload")
	}

	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.New().String()[:8], filepath.Ext(origName))
	path := filepath.Join(s.incomingDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file %q: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if cErr := f.Close(); cErr != nil && err == nil {
		err = cErr
	}
	if err != nil {
		s.Delete(path)
		return nil, fmt.Errorf("failed to write upload to %q: %w", path, err)
	}

	return &model.UploadedFile{
		Name:        name,
		Path:        path,
		ContentType: cType,
		Size:        n,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Delete removes a transient file best-effort. A file that is already gone
// counts as deleted; any other failure is logged and swallowed so that
// cleanup never fails a request that is already resolved toward the caller.
func (s *ArtifactStore) Delete(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		zlog.Logger.Error().Err(err).Str("path", path).Msg("Failed to delete transient file")
	}
}

// Age reports the duration since the file was last modified.
func (s *ArtifactStore) Age(path string) (time.Duration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return time.Since(info.ModTime()), nil
}

// ListEntries returns a one-shot snapshot of a managed directory.
func (s *ArtifactStore) ListEntries(dir string) ([]os.DirEntry, error) {
	return os.ReadDir(dir)
}
