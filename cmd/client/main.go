package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/auth"
	"github.com/mwalimu/shulesync/internal/client/cli"
	"github.com/mwalimu/shulesync/internal/client/offline"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", cfg.ServerURL, "Server URL")
	dbPath := flag.String("db", cfg.DBPath, "Path to the local record store")
	authDBPath := flag.String("authdb", cfg.AuthDBPath, "Path to the credential store")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := openStore(ctx, *dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close local store", "error", err)
		}
	}()

	authStore, err := boltdb.New(ctx, *authDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open credential store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := authStore.Close(); err != nil {
			logger.Error("failed to close credential store", "error", err)
		}
	}()

	apiClient := httpclient.NewClient(*serverURL)
	authSvc := auth.NewService(apiClient, authStore, logger)
	queueMgr := queue.NewManager(store, cfg.MaxRetries, logger)
	probe := clientProbe{apiClient}
	engine := syncpkg.NewEngine(apiClient, store, queueMgr, store, probe, logger)

	grades := offline.NewGrades(apiClient, store, queueMgr, probe, authSvc, logger)
	attendance := offline.NewAttendance(apiClient, store, queueMgr, probe, authSvc, logger)
	students := offline.NewStudents(apiClient, store, probe, authSvc, logger)
	reference := offline.NewReference(store, store, logger)

	app := cli.New(apiClient, authSvc, engine, queueMgr, store, grades, attendance, students, reference, logger)

	if err := runCommand(ctx, app, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, app *cli.Cli, command string, args []string) error {
	switch command {
	case "login":
		return app.RunLogin(ctx)
	case "logout":
		return app.RunLogout(ctx)
	case "status":
		return app.RunStatus(ctx)
	case "sync":
		return app.RunSync(ctx)
	case "queue":
		return app.RunQueue(ctx, args)
	case "grade":
		return app.RunGrade(ctx, args)
	case "attendance":
		return app.RunAttendance(ctx, args)
	case "list":
		return app.RunList(ctx, args)
	case "reset":
		return app.RunReset(ctx, args)
	default:
		cli.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// openStore opens the record store, recovering once from a corrupt database
// file. Recovery drops local data, so it is loudly reported, never silent.
func openStore(ctx context.Context, dbPath string, logger *slog.Logger) (*sqlite.Storage, error) {
	store, err := sqlite.New(ctx, dbPath)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, storage.ErrStoreCorrupt) {
		return nil, err
	}

	logger.Warn("local store is corrupt, reinitializing; cached data and queued changes are lost", "error", err)
	fmt.Fprintln(os.Stderr, "Warning: the local store was corrupt and has been reset")

	if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("failed to remove corrupt store: %w", rmErr)
	}
	return sqlite.New(ctx, dbPath)
}

// clientProbe adapts the API client's health check to the engine's Probe.
type clientProbe struct {
	api *httpclient.Client
}

func (p clientProbe) Online(ctx context.Context) bool {
	return p.api.Ping(ctx)
}

func printVersion() {
	fmt.Printf("shulesync client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
