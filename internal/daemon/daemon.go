package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"tonearm/internal/actionlog"
	"tonearm/internal/config"
	"tonearm/internal/immunity"
	"tonearm/internal/ipc"
	"tonearm/internal/logging"
	"tonearm/internal/messenger"
	"tonearm/internal/services/player"
	"tonearm/internal/voting"
)

// Daemon owns the assembled voting engine and its IPC surface, and
// enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *voting.Engine
	actions *actionlog.Store

	lockPath string
	lock     *flock.Flock

	server  *ipc.Server
	running atomic.Bool
}

// New constructs a daemon with initialized collaborators.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	var actions *actionlog.Store
	store, err := actionlog.Open(cfg.Paths.LogDir)
	if err != nil {
		// The audit trail is best effort; run without it rather than fail.
		logger.Warn("action log unavailable",
			logging.String(logging.FieldEventType, "actionlog_unavailable"),
			logging.Error(err),
		)
	} else {
		actions = store
	}

	playerClient := player.NewClient(cfg)
	engine, err := voting.New(voting.Options{
		Limits:          config.NewLimitStore(cfg.Voting),
		Registry:        immunity.NewRegistry(),
		Queue:           playerClient,
		Actuator:        playerClient,
		Messenger:       messenger.NewService(cfg),
		Actions:         actionLogOrNil(actions),
		Clock:           voting.RealClock(),
		Logger:          logger,
		FanfareURI:      cfg.Voting.FanfareURI,
		FanfareDuration: time.Duration(cfg.Voting.FanfareSeconds) * time.Second,
		GongCapScope:    voting.CapScope(cfg.Voting.GongCapScope),
	})
	if err != nil {
		return nil, fmt.Errorf("build voting engine: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "tonearmd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		engine:   engine,
		actions:  actions,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Engine returns the assembled voting engine.
func (d *Daemon) Engine() *voting.Engine { return d.engine }

// Start acquires the daemon lock and begins serving IPC requests.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another tonearmd instance is already running")
	}

	info := ipc.ServerInfo{}
	if d.actions != nil {
		info.ActionDBPath = d.actions.Path()
	}
	server, err := ipc.NewServer(ctx, d.cfg.Paths.SocketPath, d.engine, info, d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start ipc server: %w", err)
	}
	d.server = server
	d.running.Store(true)
	d.logger.Info("tonearmd started",
		logging.String("socket", d.cfg.Paths.SocketPath),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop shuts down the IPC server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.server != nil {
		if err := d.server.Close(); err != nil {
			d.logger.Warn("ipc server close failed", logging.Error(err))
		}
		d.server = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("tonearmd stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.actions != nil {
		return d.actions.Close()
	}
	return nil
}

// Run starts the daemon and blocks until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// actionLogOrNil avoids handing the engine a typed-nil interface value.
func actionLogOrNil(store *actionlog.Store) voting.ActionLog {
	if store == nil {
		return nil
	}
	return store
}
