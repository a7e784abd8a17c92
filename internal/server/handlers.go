package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowgrid/flowserve/internal/errors"
	"github.com/flowgrid/flowserve/internal/flow"
	"github.com/flowgrid/flowserve/internal/logger"
	"github.com/flowgrid/flowserve/internal/streaming"
	"github.com/gin-gonic/gin"
)

// Handler serves the flow execution and catalog endpoints.
type Handler struct {
	catalog         *flow.Catalog
	logger          *logger.Logger
	eventBufferSize int
	ackBufferSize   int
}

// NewHandler creates a new flow handler.
func NewHandler(catalog *flow.Catalog, log *logger.Logger, eventBufferSize, ackBufferSize int) *Handler {
	return &Handler{
		catalog:         catalog,
		logger:          log,
		eventBufferSize: eventBufferSize,
		ackBufferSize:   ackBufferSize,
	}
}

// resolve looks up the flow named in the path, replying 404 when absent.
// Resolution runs after the auth middleware, so by the time a session could
// be constructed both guards have passed.
func (h *Handler) resolve(c *gin.Context) *flow.Flow {
	id := c.Param("id")
	f := h.catalog.Get(id)
	if f == nil {
		errors.AbortWithNotFound(c, fmt.Sprintf("flow %s not found", id), nil)
		return nil
	}
	return f
}

// Run handles POST /flows/:id/run.
// The run endpoint is a total function over authenticated requests: failures
// inside the computation come back as 200 with success=false and populated
// result/logs, never as a bare 500.
func (h *Handler) Run(c *gin.Context) {
	f := h.resolve(c)
	if f == nil {
		return
	}

	ctx := logger.WithFlowID(c.Request.Context(), f.Meta.ID)
	log := h.logger.WithContext(ctx).WithComponent("run-handler")

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{"reason": err.Error()})
		return
	}

	start := time.Now()
	result, err := f.Computation.Execute(ctx, flow.Input{InputValue: req.InputValue, InputType: "chat", OutputType: "chat"}, nil)
	if err != nil {
		log.LogError(ctx, err, "flow execution failed")
		recordRun("error", time.Since(start))
		message := fmt.Sprintf("Flow execution failed: %v", err)
		c.JSON(http.StatusOK, RunResponse{
			Result:  message,
			Success: false,
			Logs:    fmt.Sprintf("ERROR: %s", message),
			Type:    "error",
		})
		return
	}

	if !result.Success {
		logs := result.Logs
		if logs == "" {
			logs = "Flow execution completed but no valid result was produced."
		}
		recordRun("error", time.Since(start))
		c.JSON(http.StatusOK, RunResponse{
			Result:    result.Result,
			Success:   false,
			Logs:      logs,
			Type:      "error",
			Component: result.Component,
		})
		return
	}

	log.Debug("flow execution completed",
		slog.Duration("duration", time.Since(start)),
		slog.String("component", result.Component))
	recordRun("success", time.Since(start))

	c.JSON(http.StatusOK, RunResponse{
		Result:    result.Result,
		Success:   result.Success,
		Logs:      result.Logs,
		Type:      result.Type,
		Component: result.Component,
	})
}

// Stream handles POST /flows/:id/stream.
// The response body is a sequence of event envelopes; the stream stays
// healthy across computation failures (they arrive as error events) and ends
// when the execution task's terminal sentinel is read or the client goes
// away.
func (h *Handler) Stream(c *gin.Context) {
	f := h.resolve(c)
	if f == nil {
		return
	}

	ctx := logger.WithFlowID(c.Request.Context(), f.Meta.ID)

	var req StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.AbortWithBadRequest(c, "invalid request body", map[string]interface{}{"reason": err.Error()})
		return
	}

	if req.SessionID != "" {
		ctx = logger.WithSessionID(ctx, req.SessionID)
	}
	log := h.logger.WithContext(ctx).WithComponent("stream-handler")

	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support flushing")
		errors.AbortWithInternal(c, "streaming not supported", nil)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	session, err := streaming.NewSession(f, req.Input(), h.eventBufferSize, h.ackBufferSize, h.logger)
	if err != nil {
		// Degrade to a single-chunk error stream: a stream endpoint response
		// body is always at least one well-formed envelope.
		log.Error("failed to construct stream session", slog.String("error", err.Error()))
		streaming.WriteErrorStream(w, flusher, fmt.Sprintf("Failed to start streaming: %v", err))
		return
	}

	session.Start(ctx)
	defer session.Close()

	if err := session.Stream(ctx, w, flusher); err != nil {
		log.Debug("client disconnected, closing stream", slog.String("reason", err.Error()))
		return
	}

	log.Debug("stream completed")
}

// Info handles GET /flows/:id/info.
func (h *Handler) Info(c *gin.Context) {
	f := h.resolve(c)
	if f == nil {
		return
	}

	analysis := flow.Analyze(f.Graph)
	c.JSON(http.StatusOK, InfoResponse{
		Meta:        f.Meta,
		Components:  analysis.NodeCount,
		Connections: analysis.EdgeCount,
		InputTypes:  analysis.InputTypes,
		OutputTypes: analysis.OutputTypes,
	})
}

// List handles GET /flows. Unauthenticated: it exposes catalog metadata so
// API consumers can discover flow IDs without guessing.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.List())
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		FlowCount: h.catalog.Len(),
	})
}
