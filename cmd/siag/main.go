package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/siag/internal/config"
	"github.com/dukerupert/siag/internal/database"
	"github.com/dukerupert/siag/internal/fixtures"
	"github.com/dukerupert/siag/internal/logging"
	"github.com/dukerupert/siag/internal/metrics"
	"github.com/dukerupert/siag/internal/notify"
	"github.com/dukerupert/siag/internal/push"
	"github.com/dukerupert/siag/internal/server"
	"github.com/dukerupert/siag/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "vapid-keys" {
		if err := printVAPIDKeys(); err != nil {
			fmt.Fprintf(os.Stderr, "siag: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "siag: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seed(ctx, db, cfg.Fixtures); err != nil {
		return err
	}
	snap, err := store.NewDatasetStore(db).Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}
	logger.Info("dataset loaded", "cases", len(snap.Cases), "hearings", len(snap.Hearings),
		"deadlines", len(snap.Deadlines), "tasks", len(snap.Tasks))

	m := metrics.New()
	srv := server.New(db, cfg, snap, m, logger)
	if !cfg.PushEnabled() {
		logger.Info("web push disabled, run `siag vapid-keys` to create keys")
	}

	go srv.RateLimiter().Run(ctx, 5*time.Minute)
	go cleanupSessions(ctx, srv, logger)

	if cfg.ReminderCron != "" {
		reminder := notify.NewReminder(notify.ReminderConfig{
			Spec:     cfg.ReminderCron,
			Location: cfg.Location(),
			Snapshot: srv.Snapshot,
			Users:    srv.UserStore(),
			Sink:     srv.Sink(),
			Metrics:  m,
			Logger:   logger.With("component", "reminder"),
		})
		if err := reminder.Start(ctx); err != nil {
			return err
		}
		defer reminder.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seed loads the fixture file at path, or the embedded demo data when path
// is empty.
func seed(ctx context.Context, db *sql.DB, path string) error {
	if path == "" {
		return fixtures.LoadDefault(ctx, db)
	}
	d, err := fixtures.ReadFile(path)
	if err != nil {
		return err
	}
	return fixtures.Load(ctx, db, d)
}

func cleanupSessions(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := srv.CleanupSessions()
			if err != nil {
				logger.Error("cleanup sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}

// printVAPIDKeys writes a fresh key pair in the environment variable form
// the config loader reads.
func printVAPIDKeys() error {
	pub, priv, err := push.GenerateVAPIDKeys()
	if err != nil {
		return err
	}
	fmt.Printf("SIAG_VAPID_PUBLIC_KEY=%s\nSIAG_VAPID_PRIVATE_KEY=%s\n", pub, priv)
	return nil
}
