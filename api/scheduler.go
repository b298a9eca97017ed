/*
scheduler.go - Automatic backup scheduler

PURPOSE:
  Writes periodic snapshot files to the backup directory when automatic
  backup is enabled in settings. Schedules are derived from the configured
  backup frequency; an explicit cron override wins when set.

DESIGN:
  - Runs a robfig/cron instance with a single backup job
  - Subscribes to settings changes and re-derives the schedule, so
    toggling auto-backup or changing the frequency takes effect without
    a restart
  - Snapshot files are timestamped and never overwritten

SCHEDULES:
  daily    0 0 * * *    (midnight)
  weekly   0 0 * * 1    (Monday midnight)
  monthly  0 0 1 * *    (first of the month)

USAGE:
  s := NewBackupScheduler(backup, settings, bus, dir, "", logger)
  s.Start(ctx)
  defer s.Stop()

SEE ALSO:
  - ledger/backup.go: Snapshot export
  - ledger/settings.go: EnableAutoBackup, BackupFrequency
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ulyafarhan/udangku/ledger"
)

// BackupScheduler periodically exports snapshots to disk.
type BackupScheduler struct {
	backup   *ledger.Backup
	settings *ledger.SettingsService
	bus      *ledger.Bus
	dir      string
	override string // cron spec overriding the frequency mapping

	log *zap.Logger

	mu          sync.Mutex
	cron        *cron.Cron
	entry       cron.EntryID
	unsubscribe func()
}

// NewBackupScheduler creates a scheduler. override, when non-empty, is a
// cron spec used instead of the frequency-derived schedule.
func NewBackupScheduler(backup *ledger.Backup, settings *ledger.SettingsService, bus *ledger.Bus, dir, override string, log *zap.Logger) *BackupScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BackupScheduler{
		backup:   backup,
		settings: settings,
		bus:      bus,
		dir:      dir,
		override: override,
		log:      log,
	}
}

// Start derives the schedule from current settings and begins running.
// It also subscribes to settings changes for live rescheduling.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron = cron.New()
	if err := s.reschedule(ctx); err != nil {
		return err
	}
	s.cron.Start()

	s.unsubscribe = s.bus.Subscribe(func(ledger.Collection) {
		if err := s.Reschedule(context.Background()); err != nil {
			s.log.Error("backup reschedule failed", zap.Error(err))
		}
	}, ledger.CollectionSettings)

	return nil
}

// Stop halts the cron loop and drops the settings subscription.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Reschedule re-reads settings and swaps the cron entry.
func (s *BackupScheduler) Reschedule(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reschedule(ctx)
}

// reschedule expects s.mu held.
func (s *BackupScheduler) reschedule(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	if !settings.EnableAutoBackup {
		s.log.Info("automatic backup disabled")
		return nil
	}

	spec := s.override
	if spec == "" {
		spec = cronSpecFor(settings.BackupFrequency)
	}
	entry, err := s.cron.AddFunc(spec, s.runBackup)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	s.entry = entry
	s.log.Info("automatic backup scheduled",
		zap.String("schedule", spec),
		zap.String("frequency", string(settings.BackupFrequency)))
	return nil
}

func cronSpecFor(freq ledger.BackupFrequency) string {
	switch freq {
	case ledger.BackupDaily:
		return "0 0 * * *"
	case ledger.BackupMonthly:
		return "0 0 1 * *"
	default:
		return "0 0 * * 1"
	}
}

// runBackup exports a snapshot to a timestamped file.
func (s *BackupScheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := s.backup.Export(ctx)
	if err != nil {
		s.log.Error("backup export failed", zap.Error(err))
		return
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Error("backup dir create failed", zap.Error(err))
		return
	}
	name := fmt.Sprintf("udangku-%s.json", snap.ExportedAt.Format("20060102-150405"))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.Error("backup marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("backup write failed", zap.Error(err))
		return
	}

	s.log.Info("backup written",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
}
