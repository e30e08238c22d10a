package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/cli"
	"kharcha/internal/http"
	applog "kharcha/internal/log"
	"kharcha/internal/services"
	"kharcha/internal/store"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	kv := cli.InitStorage(logger, cfg.DBPath)
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("Failed to close storage", applog.FieldError, err.Error())
		}
	}()

	st := store.New(kv, logger)
	st.Load(context.Background())

	svc := services.NewExpenseService(st, logger)
	server := http.NewServer(cfg, svc, st, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
