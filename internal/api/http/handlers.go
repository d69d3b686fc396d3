package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmluang/xTerm/internal/infrastructure/monitoring"
	"github.com/jmluang/xTerm/internal/providers/terminal"
	"github.com/jmluang/xTerm/internal/service"
	"github.com/jmluang/xTerm/internal/shared/types"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	registry *service.Registry
	manager  *terminal.Manager
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set.
func NewHandlers(registry *service.Registry, manager *terminal.Manager) *Handlers {
	return &Handlers{registry: registry, manager: manager}
}

// WithMetrics attaches a metrics collector.
func (h *Handlers) WithMetrics(metrics *monitoring.Metrics) *Handlers {
	h.metrics = metrics
	return h
}

// ExecuteRequest is the body of POST /services/execute.
type ExecuteRequest struct {
	ToolID   string                 `json:"tool_id" binding:"required"`
	Params   map[string]interface{} `json:"params"`
	WindowID *string                `json:"window_id"`
}

// Root handles the liveness check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "xTerm backend",
		"version": "0.3.0",
	})
}

// Health reports registry and session state.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"sessions":         gin.H{"active": h.manager.Count()},
	})
}

// ListServices lists registered services, optionally by category.
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService routes a tool invocation to its provider.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var execCtx *types.Context
	if req.WindowID != nil {
		execCtx = &types.Context{WindowID: req.WindowID}
	}

	var timer *monitoring.Timer
	if h.metrics != nil {
		serviceID, toolID := splitToolID(req.ToolID)
		timer = monitoring.NewTimer(h.metrics, serviceID, toolID)
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, execCtx)
	if timer != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		timer.Stop(status)
	}
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Failures still carry a Result with the message for the frontend.
	c.JSON(http.StatusOK, result)
}

func splitToolID(toolID string) (string, string) {
	for i := 0; i < len(toolID); i++ {
		if toolID[i] == '.' {
			return toolID[:i], toolID[i+1:]
		}
	}
	return toolID, ""
}
