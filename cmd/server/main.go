package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowgrid/flowserve/internal/config"
	"github.com/flowgrid/flowserve/internal/flow"
	"github.com/flowgrid/flowserve/internal/graph"
	"github.com/flowgrid/flowserve/internal/logger"
	"github.com/flowgrid/flowserve/internal/server"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	log.Info("Setting Gin mode", slog.String("mode", cfg.GinMode))
	gin.SetMode(cfg.GinMode)

	if cfg.APIKey == "" {
		log.Warn("FLOWSERVE_API_KEY is not set; authenticated endpoints will reject all requests")
	}

	// Load the flow catalog once; it is immutable for the life of the process.
	overrides := make(map[string]flow.MetaOverride, len(cfg.FlowOverrides))
	for path, o := range cfg.FlowOverrides {
		overrides[path] = flow.MetaOverride{Title: o.Title, Description: o.Description}
	}

	flows, err := flow.LoadDirectory(cfg.FlowsDir, func(g *flow.Graph) flow.Computation {
		return graph.NewExecutor(g)
	}, overrides)
	if err != nil {
		log.Error("Failed to load flows", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog := flow.NewCatalog(flows)
	for _, meta := range catalog.List() {
		log.Info("loaded flow",
			slog.String("id", meta.ID),
			slog.String("path", meta.RelativePath),
			slog.String("title", meta.Title))
	}

	router := server.NewRouter(cfg, log, catalog)

	port := ":" + cfg.Port
	log.Info("flowserve listening", slog.String("addr", port), slog.Int("flows", catalog.Len()))

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("Server exited")
}
