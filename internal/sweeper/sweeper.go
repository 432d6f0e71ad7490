// Package sweeper reclaims orphaned transient files as a safety net against
// failed cleanup or crashed requests
package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/wb-go/wbf/zlog"
)

// Store - контракт для работы с транзитными директориями
type Store interface {
	ListEntries(dir string) ([]os.DirEntry, error)
	Age(path string) (time.Duration, error)
	Delete(path string)
}

type Sweeper struct {
	store     Store
	dirs      []string
	interval  time.Duration
	retention time.Duration
}

func New(store Store, dirs []string, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		store:     store,
		dirs:      dirs,
		interval:  interval,
		retention: retention,
	}
}

// Run sweeps once immediately, then on every tick until the context is done.
func (s *Sweeper) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().Interface("panic", r).Msg("Sweeper loop crashed")
		}
	}()

	s.SweepOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce deletes every entry older than the retention window in each
// managed directory. Per-entry errors are logged and skipped - one bad file
// must not block reclamation of the rest.
func (s *Sweeper) SweepOnce() {
	for _, dir := range s.dirs {
		entries, err := s.store.ListEntries(dir)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("dir", dir).Msg("Sweeper failed to list directory")
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			age, err := s.store.Age(path)
			if err != nil {
				zlog.Logger.Error().Err(err).Str("path", path).Msg("Sweeper failed to stat entry")
				continue
			}

			if age > s.retention {
				s.store.Delete(path)
				zlog.Logger.Info().Str("path", path).Dur("age", age).Msg("Sweeper reclaimed orphaned file")
			}
		}
	}
}
