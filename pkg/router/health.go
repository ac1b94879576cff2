package router

import (
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers liveness endpoints with process-level stats
func (r *Router) setupHealthRoutes() {
	healthHandler := func(c *gin.Context) {
		// Check database connection
		dbStatus := "ok"
		if r.Container.DB != nil {
			if err := r.Container.DB.Exec("SELECT 1").Error; err != nil {
				dbStatus = err.Error()
				r.Logger.Error("Database health check failed", "error", err)
			}
		}

		// Model bridge readiness
		modelStatus := "ok"
		if !r.Container.Bridge.Ready() {
			modelStatus = "not initialized"
		}

		// Get memory stats
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		// Prepare response
		c.JSON(200, gin.H{
			"status":    "ok",
			"version":   os.Getenv("APP_VERSION"),
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startTime).String(),
			"components": gin.H{
				"database": dbStatus,
				"model":    modelStatus,
			},
			"memory": gin.H{
				"alloc_mb":  memStats.Alloc / 1024 / 1024,
				"sys_mb":    memStats.Sys / 1024 / 1024,
				"gc_cycles": memStats.NumGC,
			},
		})
	}

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
}
