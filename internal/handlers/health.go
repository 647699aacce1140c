package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/immowert/api/internal/database"
	"github.com/stwalsh4118/immowert/api/internal/middleware"
	"github.com/stwalsh4118/immowert/api/internal/services"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout is the timeout for dependency health checks
	HealthCheckTimeout = 2 * time.Second
)

// DatabaseChecker is satisfied by *database.Database.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() *database.PoolStats
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	rates     services.RatesProvider
	db        DatabaseChecker
	startTime time.Time
	env       string
}

// NewHealthHandler creates a new HealthHandler instance. db may be nil when
// no database is configured; readiness then only checks the rate tables.
func NewHealthHandler(rates services.RatesProvider, db DatabaseChecker, env string) *HealthHandler {
	return &HealthHandler{
		rates:     rates,
		db:        db,
		startTime: time.Now(),
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
// Database and Pool are omitted when no database is configured.
type ReadyResponse struct {
	Status   string              `json:"status"`
	Rates    string              `json:"rates"`
	Database string              `json:"database,omitempty"`
	Pool     *database.PoolStats `json:"pool,omitempty"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// This is a basic liveness check that always returns 200 OK.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// Returns 200 OK once rate tables are loaded and, if configured, the database
// answers a ping. Returns 503 Service Unavailable otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	log := middleware.GetLogger(c)
	resp := ReadyResponse{Status: "ready", Rates: "loaded"}

	if _, err := h.rates.Rates(ctx); err != nil {
		if log != nil {
			log.Error("Rates health check failed", err, nil)
		}
		resp.Status = "not_ready"
		resp.Rates = "unavailable"
	}

	if h.db != nil {
		resp.Database = "connected"
		if err := h.db.Ping(ctx); err != nil {
			if log != nil {
				log.Error("Database health check failed", err, map[string]interface{}{
					"timeout": HealthCheckTimeout.String(),
				})
			}
			resp.Status = "not_ready"
			resp.Database = "disconnected"
		}
		resp.Pool = h.db.Stats()
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(uptime),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
