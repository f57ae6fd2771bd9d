package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nikolayk812/cartsync/internal/config"
	"github.com/nikolayk812/cartsync/internal/inventory"
	"github.com/nikolayk812/cartsync/internal/logger"
	"github.com/nikolayk812/cartsync/internal/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: "inventoryd", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("inventoryd failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	catalog, err := loadCatalog(cfg.InventorySeed)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.InventoryAddr,
		Handler:           inventory.NewServer(catalog, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("inventory server listening",
			slog.String("addr", cfg.InventoryAddr),
			slog.Int("products", len(catalog.Products)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("srv.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}
	log.Info("inventory server stopped")
	return nil
}

func loadCatalog(path string) (*inventory.Catalog, error) {
	if path == "" {
		return inventory.DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return inventory.LoadCatalog(f)
}
