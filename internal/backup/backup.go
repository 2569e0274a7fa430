// Package backup copies every collection out of the active store on a cron
// schedule. Each run writes one directory named after its start time.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"progresstracker/internal/repository"
	"progresstracker/pkg/metrics"
)

const (
	dirLayout   = "20060102-150405"
	snapTimeout = 30 * time.Second
)

type Scheduler struct {
	backend     repository.Backend
	dir         string
	collections []string
	logger      *zap.Logger
	now         func() time.Time

	cron *cron.Cron
	// 防止上一轮未结束时重入
	running sync.Mutex
}

func NewScheduler(backend repository.Backend, dir string, logger *zap.Logger, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		backend:     backend,
		dir:         dir,
		collections: repository.Collections,
		logger:      logger,
		now:         now,
		cron:        cron.New(cron.WithLocation(time.Local)),
	}
}

// Start registers the snapshot job and starts the cron loop.
// An empty schedule disables backups.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info("backup schedule not set, snapshots disabled")
		return nil
	}
	entryID, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("backup scheduler started",
		zap.String("schedule", schedule),
		zap.Int("entry_id", int(entryID)),
		zap.String("dir", s.dir),
	)
	return nil
}

// Stop halts scheduling and waits for a running snapshot up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("backup scheduler stop timed out")
	}
}

func (s *Scheduler) run() {
	if !s.running.TryLock() {
		s.logger.Warn("previous snapshot still running, skipping")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), snapTimeout)
	defer cancel()

	if _, err := s.Snapshot(ctx); err != nil {
		s.logger.Error("snapshot failed", zap.Error(err))
	}
}

// Snapshot writes <dir>/<timestamp>/<collection>.json for every collection
// and returns the snapshot directory. A missing collection is written as [].
func (s *Scheduler) Snapshot(ctx context.Context) (string, error) {
	target := filepath.Join(s.dir, s.now().Format(dirLayout))
	if err := os.MkdirAll(target, 0o755); err != nil {
		metrics.IncrementSnapshot("failed")
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	for _, c := range s.collections {
		data, err := s.backend.Read(ctx, c)
		if errors.Is(err, repository.ErrCollectionNotFound) {
			data = []byte("[]\n")
		} else if err != nil {
			metrics.IncrementSnapshot("failed")
			return "", fmt.Errorf("failed to read %s: %w", c, err)
		}
		if err := os.WriteFile(filepath.Join(target, c+".json"), data, 0o644); err != nil {
			metrics.IncrementSnapshot("failed")
			return "", fmt.Errorf("failed to write %s snapshot: %w", c, err)
		}
	}

	metrics.IncrementSnapshot("success")
	s.logger.Info("snapshot written",
		zap.String("dir", target),
		zap.String("backend", s.backend.Name()),
	)
	return target, nil
}
