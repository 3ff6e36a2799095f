package handlers

import (
	"net/http"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot taken by the health monitor.
func HealthHandler(snapshot func() utils.HealthStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := snapshot()
		code, state := http.StatusOK, "ok"
		if !status.Healthy() {
			code, state = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": state, "dependencies": status})
	}
}
