package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/tableman/internal/config"
	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/JonMunkholm/tableman/internal/logging"
	"github.com/JonMunkholm/tableman/internal/storage"
	"github.com/JonMunkholm/tableman/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	flushLogs := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	defer flushLogs()

	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		flushLogs()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()

	format, err := core.ParseFormat(cfg.Tables.Format)
	if err != nil {
		return err
	}

	store := core.NewStore(backend, core.Options{
		Slots: cfg.Tables.Slots,
		Session: core.SessionOptions{
			Format:         format,
			DefaultColumns: cfg.Tables.DefaultColumns,
			UndoDepth:      cfg.Tables.UndoDepth,
			HistoryLimit:   cfg.Tables.HistoryLimit,
		},
		Logger: slog.Default(),
	})
	imports := core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	server := web.NewServer(store, imports, cfg)

	slog.Info("tables configured",
		"slots", len(store.Slots()),
		"backend", cfg.Storage.Backend,
		"format", format.String(),
	)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight imports to finish (with timeout)
		if status := imports.Status(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := imports.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Edits are only persisted by an explicit save.
		for _, sess := range store.Loaded() {
			if sess.Unsaved() {
				slog.Warn("discarding unsaved changes", "slot", sess.Slot(), "undo_depth", sess.UndoDepth(), "last_saved", sess.LastSaved())
			}
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	slog.Info("server stopped")
	return nil
}
