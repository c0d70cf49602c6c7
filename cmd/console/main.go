package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/adapter/backend"
	"github.com/user/crawler-console/internal/delivery/http/handler"
	"github.com/user/crawler-console/internal/delivery/http/router"
	"github.com/user/crawler-console/internal/usecase"
	"github.com/user/crawler-console/internal/view"
	"github.com/user/crawler-console/pkg/config"
	"github.com/user/crawler-console/pkg/logger"
	"github.com/user/crawler-console/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("could not build logger", zap.Error(err))
	}
	defer log.Sync()
	log.Info("logger initialized", zap.String("level", cfg.LogLevel))

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Backend ---
	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout(), log, m, backend.WithExportTimeout(cfg.ExportTimeout()))
	if err != nil {
		log.Fatal("invalid backend configuration", zap.Error(err))
	}
	taskRepo := backend.NewTaskRepo(client)
	dataRepo := backend.NewDataRepo(client)
	log.Info("crawler backend configured", zap.String("url", cfg.BackendURL))

	// --- Use Cases ---
	dashboard := usecase.NewDashboard()
	notifier := usecase.NewNotifier(cfg.NoticeTTL())
	poller := usecase.NewPoller(taskRepo, dataRepo, dashboard, cfg.PollInterval(), log, m)
	lifecycle := usecase.NewTaskLifecycle(taskRepo, dashboard, poller, notifier, cfg.CheckFailedRefreshDelay(), log, m)
	browser := usecase.NewDataBrowser(dataRepo, cfg.DefaultPageSize, notifier, log, m)
	exporter := usecase.NewExporter(dataRepo, browser, notifier, cfg.ExportLabel, log, m)

	// --- HTTP Server ---
	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("could not parse templates", zap.Error(err))
	}
	h := handler.NewHandler(lifecycle, browser, exporter, dashboard, notifier, taskRepo, renderer, log)

	// Exports stream for up to the export timeout.
	writeTimeout := cfg.ExportTimeout() + 10*time.Second
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(h, m, reg, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	poller.Start(context.Background())

	// Graceful Shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poller.Stop()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
