// File: coursecal/handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Schedule endpoints
	ParseScheduleHandler gin.HandlerFunc

	// Calendar endpoints
	AddToCalendarHandler  gin.HandlerFunc
	ExportCalendarHandler gin.HandlerFunc

	// Health
	HealthHandler gin.HandlerFunc
}
