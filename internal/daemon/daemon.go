package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"meetingscribe/internal/config"
	"meetingscribe/internal/jobs"
	"meetingscribe/internal/library"
	"meetingscribe/internal/logging"
)

// Version is reported by the status endpoint.
const Version = "0.4.0"

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	logger  *slog.Logger
	lib     *library.Library
	manager *jobs.Manager
	saver   *config.Saver
	api     *apiServer

	cfgMu sync.RWMutex
	cfg   config.Config

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon. cfg is the configuration loaded at startup;
// configPath is where accepted updates are persisted.
func New(cfg *config.Config, configPath string, lib *library.Library, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || lib == nil {
		return nil, errors.New("daemon requires config and library")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Daemon.LogDir, "meetingscribed.lock")
	d := &Daemon{
		logger:   logger,
		lib:      lib,
		saver:    config.NewSaver(configPath),
		cfg:      *cfg,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.manager = jobs.NewManager(
		&pipelineRunner{daemon: d, logger: logger},
		logger,
		d.recordTranscript,
	)
	d.api = newAPIServer(d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another meetingscribe daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.api.start(runCtx, d.Config().Daemon); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		slog.String("lock", d.lockPath),
		slog.String("version", Version))
	return nil
}

// Stop shuts down the API server, cancels any running job, flushes pending
// config writes, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.manager.Close()
	if err := d.saver.Flush(); err != nil {
		d.logger.Warn("final config write failed", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	return d.lib.Close()
}

// Config returns a copy of the current configuration.
func (d *Daemon) Config() config.Config {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.cfg
}

// UpdateConfig validates and applies cfg, then schedules a coalesced
// persist. The in-memory update always wins: a failed disk write is logged
// by the saver path but does not roll back the accepted value.
func (d *Daemon) UpdateConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfgMu.Lock()
	d.cfg = cfg
	d.cfgMu.Unlock()

	if err := d.saver.Save(cfg); err != nil {
		d.logger.Warn("config persist failed", logging.Error(err))
	}
	return nil
}

func (d *Daemon) recordTranscript(meetingID, outputPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), libraryWriteTimeout)
	defer cancel()
	if err := d.lib.Record(ctx, meetingID, outputPath); err != nil {
		d.logger.Warn("failed to index transcript",
			slog.String("meeting", meetingID),
			logging.Error(err))
	}
}
