package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/existflow/jera/internal/api"
	"github.com/existflow/jera/internal/config"
	"github.com/existflow/jera/internal/fetch"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/obs"
	"github.com/existflow/jera/internal/session"
	"github.com/existflow/jera/internal/storage"
	"github.com/spf13/cobra"
)

// app holds what a command needs: local state, the session and the API.
type app struct {
	cfg     *config.Config
	db      *storage.DB
	session *session.Store
	client  *api.Client
	metrics *obs.Metrics
	data    *fetch.Collections
}

var (
	cfg     *config.Config
	current *app
)

// openApp opens local storage and restores the session. It is shared by
// every command of one invocation.
func openApp(ctx context.Context) (*app, error) {
	if current != nil {
		return current, nil
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(storage.DefaultPath(dir))
	if err != nil {
		logger.Error("Failed to open storage", logger.F("error", err))
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sess := session.New(db)
	sess.Init(ctx)

	metrics := obs.NewMetrics()
	client := api.New(cfg.APIURL, sess,
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithMetrics(metrics))

	current = &app{
		cfg:     cfg,
		db:      db,
		session: sess,
		client:  client,
		metrics: metrics,
		data:    fetch.NewCollections(client),
	}
	return current, nil
}

func closeApp() {
	if current == nil {
		return
	}
	current.data.Close()
	_ = current.db.Close()
	logger.Debug("Storage closed")
	current = nil
}

// requireSession is the guard for protected command groups.
func requireSession(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	return session.RequireAuth(a.session)
}

// printer reports mutation outcomes on the command's output. Failures are
// returned as errors and printed by cobra, so they are only logged here.
type printer struct {
	out io.Writer
}

func (p printer) Success(msg string) {
	fmt.Fprintf(p.out, "✓ %s\n", msg)
}

func (p printer) Failure(msg string) {
	logger.Debug("Command failed", logger.F("message", msg))
}

func notifier(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout()}
}

// nowFunc is replaced in tests.
var nowFunc = time.Now
