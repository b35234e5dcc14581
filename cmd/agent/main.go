// The agent runs the sync schedule with no interactive session: it watches
// connectivity, pushes queued changes on reconnect and on an interval, and
// pulls fresh reference data after each successful push. It reads the session
// credential persisted by the client's login command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/auth"
	"github.com/mwalimu/shulesync/internal/client/orchestrator"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage/boltdb"
	"github.com/mwalimu/shulesync/internal/client/storage/sqlite"
	syncpkg "github.com/mwalimu/shulesync/internal/client/sync"
	"github.com/mwalimu/shulesync/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", cfg.ServerURL, "Server URL")
	dbPath := flag.String("db", cfg.DBPath, "Path to the local record store")
	authDBPath := flag.String("authdb", cfg.AuthDBPath, "Path to the credential store")
	syncInterval := flag.Duration("interval", cfg.SyncInterval, "Periodic sync interval")
	flag.Parse()

	if *showVersion {
		fmt.Printf("shulesync agent %s (%s, %s)\n", Version, BuildDate, GitCommit)
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close local store", "error", err)
		}
	}()

	authStore, err := boltdb.New(ctx, *authDBPath)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer func() {
		if err := authStore.Close(); err != nil {
			logger.Error("failed to close credential store", "error", err)
		}
	}()

	apiClient := httpclient.NewClient(*serverURL)
	authSvc := auth.NewService(apiClient, authStore, logger)
	queueMgr := queue.NewManager(store, cfg.MaxRetries, logger)
	probe := agentProbe{apiClient}
	engine := syncpkg.NewEngine(apiClient, store, queueMgr, store, probe, logger)

	var notifier orchestrator.Notifier = orchestrator.NopNotifier{}
	if cfg.Notifications {
		notifier = &orchestrator.LogNotifier{Logger: logger}
	}

	orch := orchestrator.New(engine, authSvc, probe, notifier, orchestrator.Options{
		ProbeInterval:     cfg.ProbeInterval,
		SyncInterval:      *syncInterval,
		ReconnectDebounce: cfg.ReconnectDebounce,
		PullAfterPush:     true,
		PullOptions: syncpkg.PullOptions{
			ClassID:      cfg.ClassID,
			AcademicYear: cfg.AcademicYear,
		},
	}, logger)

	// Mirror the engine's event stream into the agent log.
	events, cancel := engine.Events().Subscribe()
	defer cancel()
	go func() {
		for ev := range events {
			switch ev.Type {
			case syncpkg.EventSyncComplete:
				if ev.Stats != nil && ev.Stats.Processed > 0 {
					logger.Info("sync cycle finished",
						"processed", ev.Stats.Processed,
						"succeeded", ev.Stats.Succeeded,
						"failed", ev.Stats.Failed)
				}
			case syncpkg.EventSyncError:
				logger.Error("sync cycle failed", "error", ev.Err)
			}
		}
	}()

	logger.Info("agent started",
		"server", *serverURL,
		"sync_interval", *syncInterval,
		"probe_interval", cfg.ProbeInterval)

	return orch.Run(ctx)
}

// agentProbe adapts the API client's health check to the engine's Probe.
type agentProbe struct {
	api *httpclient.Client
}

func (p agentProbe) Online(ctx context.Context) bool {
	return p.api.Ping(ctx)
}
