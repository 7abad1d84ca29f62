package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves health and runtime information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
	}
}

// RegisterRoutes registers system routes on the API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/info", h.Info)
}

// Health reports liveness. Also mounted at the engine root as /health.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Info reports build and runtime details
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"version":    h.version,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startTime).String(),
		"goroutines": runtime.NumGoroutine(),
	})
}
