package routes

import (
	"coursecal/config"
	"coursecal/handlers"
	"coursecal/middleware"
	"coursecal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the global middleware chain and all
// routes registered.
func NewRouter(cfg config.Config, hb *handlers.HandlerBundle, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	RegisterRoutes(router, hb, cfg.AllowedOrigins())
	return router
}
