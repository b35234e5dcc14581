// Package cli implements the interactive commands of the shulesync client.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/auth"
	"github.com/mwalimu/shulesync/internal/client/offline"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/client/storage/sqlite"
	syncpkg "github.com/mwalimu/shulesync/internal/client/sync"
)

// Cli bundles the services the commands operate on.
type Cli struct {
	api        *httpclient.Client
	auth       *auth.Service
	engine     *syncpkg.Engine
	queue      *queue.Manager
	store      *sqlite.Storage
	meta       storage.MetaStore
	grades     *offline.Grades
	attendance *offline.Attendance
	students   *offline.Students
	reference  *offline.Reference
	out        io.Writer
	logger     *slog.Logger
}

// New wires a Cli from the application services.
func New(api *httpclient.Client, authSvc *auth.Service, engine *syncpkg.Engine, q *queue.Manager, store *sqlite.Storage, grades *offline.Grades, attendance *offline.Attendance, students *offline.Students, reference *offline.Reference, logger *slog.Logger) *Cli {
	return &Cli{
		api:        api,
		auth:       authSvc,
		engine:     engine,
		queue:      q,
		store:      store,
		meta:       store,
		grades:     grades,
		attendance: attendance,
		students:   students,
		reference:  reference,
		out:        os.Stdout,
		logger:     logger,
	}
}

// PrintUsage writes the top-level command help.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `shulesync - offline-first school records client

Usage:
  shulesync [flags] <command> [arguments]

Commands:
  login        Authenticate against the server and store the session
  logout       Remove the stored session
  status       Show connectivity, sync state and queue counts
  sync         Push queued changes and pull fresh reference data
  queue        Inspect the mutation queue (list | retry | clear-failed)
  grade        Record or change a grade (add | delete)
  attendance   Mark a class attendance register
  list         List records (grades | attendance | students | classes | courses | schools)
  reset        Drop all local data and reinitialize the store

Flags:
  -server URL   Server base URL
  -db PATH      Path to the local record store
  -authdb PATH  Path to the credential store
`)
}

func (c *Cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
