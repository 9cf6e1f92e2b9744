package handlers

import (
	"coursecal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request scoped zap logger from the Gin context.
func getLogger(c *gin.Context) *zap.Logger {
	return utils.RequestLogger(c)
}
