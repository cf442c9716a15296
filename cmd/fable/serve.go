package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fablegraph/fable"
	"github.com/fablegraph/fable/internal/adapters"
	httpAdapter "github.com/fablegraph/fable/internal/adapters/http"
	"github.com/fablegraph/fable/internal/adapters/memory"
	"github.com/fablegraph/fable/internal/adapters/redis"
	"github.com/fablegraph/fable/internal/adapters/sqlite"
	"github.com/fablegraph/fable/internal/config"
	"github.com/fablegraph/fable/internal/logging"
	"github.com/fablegraph/fable/pkg/ports"
	"github.com/fablegraph/fable/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the story over a JSON API. Playthrough state lives in the
configured store (FABLE_STORE: memory, file, redis, or sqlite), so the
server itself is replaceable mid-game.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides FABLE_ADDR)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	path, _ := cmd.Flags().GetString("project")
	engine, err := fable.New(path, fable.WithLogger(logger))
	if err != nil {
		return err
	}

	store, cleanup, err := buildStore(cfg, path)
	if err != nil {
		return err
	}
	defer cleanup()

	sessions := session.NewManager(store, session.WithLogger(logger))
	server := httpAdapter.NewServer(engine, sessions, httpAdapter.WithLogger(logger))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "store", string(cfg.StoreKind), "project", path)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}

func buildStore(cfg *config.Config, projectPath string) (ports.StateStore, func(), error) {
	noop := func() {}
	switch cfg.StoreKind {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		dir := cfg.SessionDir
		if dir == "" {
			dir = sessionDir(projectPath)
		}
		return adapters.NewFileStore(dir), noop, nil
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return store, func() { _ = store.Close() }, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreKind)
	}
}
