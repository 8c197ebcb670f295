package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/snapshot"
	"github.com/classcover/classcover-api/internal/store"
	"github.com/classcover/classcover-api/pkg/jobs"
)

// SyncService persists session state: the local store is written
// synchronously on every change, the remote document store on a
// debounced delay where a newer edit supersedes the pending write.
// Remote failures never block or roll back local state.
type SyncService struct {
	store     *store.Store
	local     snapshot.LocalStore
	remote    snapshot.RemoteStore
	debouncer *jobs.Debouncer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSyncService constructs a SyncService. remote may be nil for
// local-only mode.
func NewSyncService(st *store.Store, local snapshot.LocalStore, remote snapshot.RemoteStore, debounce time.Duration, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		store:  st,
		local:  local,
		remote: remote,
		debouncer: jobs.NewDebouncer("remote-sync", jobs.DebouncerConfig{
			Delay:  debounce,
			Logger: logger,
		}),
		metrics: metrics,
		logger:  logger,
	}
}

// Start arms the debounced remote writer.
func (s *SyncService) Start(ctx context.Context) {
	s.debouncer.Start(ctx)
}

// Stop flushes any pending remote write and shuts the debouncer down.
func (s *SyncService) Stop() {
	s.debouncer.Flush()
	s.debouncer.Stop()
}

/// Bootstrap loads startup state: the remote document when reachable,
// otherwise the local records, otherwise an empty roster.
func (s *SyncService) Bootstrap(ctx context.Context) {
	if s.remote != nil {
		snap, found, err := s.remote.Pull(ctx)
		if err != nil {
			s.logger.Warn("remote snapshot unavailable, falling back to local", zap.Error(err))
		} else if found {
			s.store.Load(snap)
			s.logger.Info("state restored from remote store",
				zap.Int("teachers", len(snap.Teachers)),
				zap.Int("logs", len(snap.Logs)),
				zap.Time("lastUpdated", snap.LastUpdated))
			s.saveLocal(ctx, s.store.Snapshot())
			return
		}
	}

	snap, found, err := s.local.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load local snapshot, starting empty", zap.Error(err))
		return
	}
	if !found {
		s.logger.Info("no saved state found, starting empty")
		return
	}
	s.store.Load(snap)
	s.logger.Info("state restored from local store",
		zap.Int("teachers", len(snap.Teachers)),
		zap.Int("logs", len(snap.Logs)))
}

// Persist writes the current state locally and schedules the debounced
// remote write. Called after every successful mutation.
func (s *SyncService) Persist(ctx context.Context) {
	snap := s.store.Snapshot()
	s.saveLocal(ctx, snap)
	s.scheduleRemote(snap)
}

func (s *SyncService) saveLocal(ctx context.Context, snap models.Snapshot) {
	if err := s.local.Save(ctx, snap); err != nil {
		s.logger.Error("local snapshot write failed", zap.Error(err))
	}
}

func (s *SyncService) scheduleRemote(snap models.Snapshot) {
	if s.remote == nil {
		return
	}
	superseded := s.debouncer.Schedule(func(ctx context.Context) {
		err := s.remote.Push(ctx, snap)
		if s.metrics != nil {
			s.metrics.RecordSyncAttempt(err != nil)
		}
		if err != nil {
			s.logger.Warn("remote snapshot write failed", zap.Error(err))
			return
		}
		s.logger.Debug("remote snapshot written", zap.Time("lastUpdated", snap.LastUpdated))
	})
	if superseded && s.metrics != nil {
		s.metrics.RecordSyncSuperseded()
	}
}
