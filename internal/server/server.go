package server

import (
	"github.com/flowgrid/flowserve/internal/auth"
	"github.com/flowgrid/flowserve/internal/config"
	"github.com/flowgrid/flowserve/internal/flow"
	"github.com/flowgrid/flowserve/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the flow multiplexer: an unauthenticated catalog, health,
// and metrics surface, plus per-flow run/stream/info endpoints behind the
// API key guard. The guard runs before flow resolution, so unauthenticated
// requests are rejected without touching the catalog or allocating any
// session resources.
func NewRouter(cfg *config.Config, log *logger.Logger, catalog *flow.Catalog) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(RequestIDMiddleware())

	handler := NewHandler(catalog, log, cfg.EventBufferSize, cfg.AckBufferSize)

	router.GET("/health", handler.Health)
	router.GET("/flows", handler.List)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	keyAuth := auth.NewAPIKeyMiddleware(cfg.APIKey)

	flows := router.Group("/flows/:id")
	flows.Use(keyAuth.RequireAPIKey())
	{
		flows.POST("/run", handler.Run)
		flows.POST("/stream", handler.Stream)
		flows.GET("/info", handler.Info)
	}

	return router
}
