package routes

import (
	"time"

	"coursecal/handlers"
	"coursecal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScheduleRoutes registers schedule image endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		api.POST("/parse", hb.ParseScheduleHandler)
	}
}

// RegisterCalendarRoutes registers calendar sync and export endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		// Export needs no calendar account.
		api.POST("/export", hb.ExportCalendarHandler)

		// Protected routes (Require the caller's calendar access token)
		protected := api.Group("")
		protected.Use(middleware.BearerTokenMiddleware())
		protected.POST("/add", hb.AddToCalendarHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	corsCfg := cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	// Credentials cannot be combined with a wildcard origin.
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	RegisterScheduleRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
