// Package orchestrator decides when to sync: on reconnect, on interval, on
// explicit user action. It layers a status state machine over a connectivity
// probe and surfaces both to the rest of the application.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mwalimu/shulesync/internal/client/auth"
	enginepkg "github.com/mwalimu/shulesync/internal/client/sync"
	"github.com/mwalimu/shulesync/internal/models"
)

// State is the sync status exposed to the application.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

//go:generate go tool moq -out syncer_mock.go . Syncer

// Syncer is the engine surface the orchestrator drives. The background agent
// and the interactive client both go through this same interface, so the
// single-flight and convergence guarantees are uniform across contexts.
type Syncer interface {
	Push(ctx context.Context, accessToken string) (*enginepkg.PushStats, error)
	Pull(ctx context.Context, accessToken string, collections []models.Collection, opts enginepkg.PullOptions) (*enginepkg.PullStats, error)
	PendingCount(ctx context.Context) (int, error)
}

// Options tune the orchestrator's schedule.
type Options struct {
	// ProbeInterval is how often connectivity is re-checked.
	ProbeInterval time.Duration
	// SyncInterval is the periodic background sync cadence.
	SyncInterval time.Duration
	// ReconnectDebounce delays the sync after an offline->online transition
	// so flaky reconnects do not fire a burst of syncs.
	ReconnectDebounce time.Duration
	// PullOptions scope the reference-data pull that follows a push.
	PullOptions enginepkg.PullOptions
	// PullAfterPush refreshes reference data after each successful push.
	PullAfterPush bool
}

// Orchestrator owns the sync schedule and status for one execution context.
// Construct one instance at startup and pass it by reference; the narrow
// published surface is Status, IsOnline, PendingCount and TriggerSync.
type Orchestrator struct {
	syncer   Syncer
	tokens   auth.TokenSource
	probe    enginepkg.Probe
	notifier Notifier
	logger   *slog.Logger
	opts     Options

	mu     sync.RWMutex
	state  State
	online bool
}

// New creates an orchestrator. A nil notifier disables notifications.
func New(syncer Syncer, tokens auth.TokenSource, probe enginepkg.Probe, notifier Notifier, opts Options, logger *slog.Logger) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 30 * time.Second
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = time.Hour
	}
	if opts.ReconnectDebounce <= 0 {
		opts.ReconnectDebounce = 2 * time.Second
	}
	return &Orchestrator{
		syncer:   syncer,
		tokens:   tokens,
		probe:    probe,
		notifier: notifier,
		opts:     opts,
		state:    StateIdle,
		logger:   logger,
	}
}

// Status returns the current sync status.
func (o *Orchestrator) Status() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// IsOnline returns the last observed connectivity.
func (o *Orchestrator) IsOnline() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.online
}

// PendingCount returns the number of queued mutations awaiting push.
func (o *Orchestrator) PendingCount(ctx context.Context) (int, error) {
	return o.syncer.PendingCount(ctx)
}

// Run observes connectivity and drives the sync schedule until ctx is
// cancelled. It checks connectivity once immediately so the first scheduled
// sync does not wait a full probe interval.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.setOnline(o.probe.Online(ctx))

	probeTicker := time.NewTicker(o.opts.ProbeInterval)
	defer probeTicker.Stop()
	syncTicker := time.NewTicker(o.opts.SyncInterval)
	defer syncTicker.Stop()

	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-probeTicker.C:
			was := o.IsOnline()
			now := o.probe.Online(ctx)
			o.setOnline(now)
			switch {
			case !was && now:
				o.logger.Info("connectivity restored")
				o.notifier.Notify(ctx, "Back online", "Syncing queued changes")
				debounce = time.After(o.opts.ReconnectDebounce)
			case was && !now:
				// No sync attempted; queued items simply wait.
				o.logger.Info("connectivity lost")
				o.notifier.Notify(ctx, "Offline", "Changes will be saved locally and synced later")
				debounce = nil
			}

		case <-debounce:
			debounce = nil
			if err := o.TriggerSync(ctx); err != nil {
				o.logger.Warn("reconnect sync failed", "error", err)
			}

		case <-syncTicker.C:
			if err := o.TriggerSync(ctx); err != nil &&
				!errors.Is(err, enginepkg.ErrOffline) &&
				!errors.Is(err, enginepkg.ErrSyncInProgress) {
				o.logger.Warn("scheduled sync failed", "error", err)
			}
		}
	}
}

// TriggerSync runs one push (and optionally pull) cycle. Automatic triggers,
// the user's "sync now" and the background agent all take this exact path and
// share the engine's single-flight guard.
func (o *Orchestrator) TriggerSync(ctx context.Context) error {
	token, err := o.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("cannot sync without a session: %w", err)
	}

	prev := o.Status()
	o.setState(StateSyncing)

	stats, err := o.syncer.Push(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, enginepkg.ErrSyncInProgress):
			// Another context owns this cycle; leave its status alone.
			o.setState(prev)
			return err
		case errors.Is(err, enginepkg.ErrOffline):
			o.setState(StateIdle)
			o.setOnline(false)
			return err
		default:
			o.setState(StateError)
			o.notifier.Notify(ctx, "Sync failed", err.Error())
			return err
		}
	}

	if stats.Failed > 0 {
		o.setState(StateError)
		o.notifier.Notify(ctx, "Sync finished with errors",
			fmt.Sprintf("%d of %d changes were rejected", stats.Failed, stats.Processed))
	} else {
		o.setState(StateSuccess)
		if stats.Processed > 0 {
			o.notifier.Notify(ctx, "Sync complete",
				fmt.Sprintf("%d changes uploaded", stats.Succeeded))
		}
	}

	if o.opts.PullAfterPush {
		if _, err := o.syncer.Pull(ctx, token, nil, o.opts.PullOptions); err != nil {
			// Reference data staleness is tolerable; the push outcome stands.
			o.logger.Warn("pull after push failed", "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = s
}

func (o *Orchestrator) setOnline(online bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.online = online
}
