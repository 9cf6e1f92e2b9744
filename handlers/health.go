package handlers

import (
	"net/http"

	"coursecal/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness plus the last dependency snapshot.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{"status": "ok", "message": "Hi, I'm coursecal"}
		if monitor != nil {
			resp["dependencies"] = monitor.Status()
		}
		c.JSON(http.StatusOK, resp)
	}
}
