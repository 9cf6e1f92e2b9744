package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"coursecal/middleware"
	"coursecal/models"
	"coursecal/services/calendar"
	"coursecal/services/calsync"
	"coursecal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Syncer is the part of calsync.Orchestrator the calendar endpoints use.
type Syncer interface {
	Sync(ctx context.Context, token string, courses []models.Course, window models.SemesterWindow) ([]models.CourseOutcome, error)
	Compile(courses []models.Course, window models.SemesterWindow) ([]models.RecurringEvent, []models.CourseOutcome, error)
}

// CalendarHandler serves the calendar sync and export endpoints.
type CalendarHandler struct {
	Syncer Syncer
	Now    func() time.Time
}

func NewCalendarHandler(syncer Syncer) *CalendarHandler {
	return &CalendarHandler{Syncer: syncer, Now: time.Now}
}

func bindSyncRequest(c *gin.Context) (models.SyncRequest, bool) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "Request too large", err.Error())
			return req, false
		}
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return req, false
	}
	if !req.StartDate.IsValid() || !req.EndDate.IsValid() {
		utils.JSONError(c, http.StatusBadRequest, "Missing courses or dates", "")
		return req, false
	}
	return req, true
}

// AddToCalendarHandler creates one recurring event per course in the
// caller's calendar. The response lists one outcome per course, in input
// order.
func (h *CalendarHandler) AddToCalendarHandler(c *gin.Context) {
	logger := getLogger(c)

	req, ok := bindSyncRequest(c)
	if !ok {
		return
	}

	results, err := h.Syncer.Sync(c.Request.Context(), middleware.AccessToken(c), req.Courses, req.Window())
	switch {
	case errors.Is(err, calsync.ErrInvalidRequest):
		utils.JSONError(c, http.StatusBadRequest, "Missing courses or dates", err.Error())
		return
	case errors.Is(err, calsync.ErrAuthFailure):
		logger.Warn("Calendar rejected credential", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"success": false,
			"results": results,
		})
		return
	case err != nil:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to add events to calendar", err.Error())
		return
	}

	resp := models.SyncResponse{Success: calsync.AllCreated(results), Results: results}
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusMultiStatus
	}
	c.JSON(status, resp)
}

// ExportCalendarHandler compiles the courses and returns them as an
// iCalendar file. No calendar account is involved.
func (h *CalendarHandler) ExportCalendarHandler(c *gin.Context) {
	req, ok := bindSyncRequest(c)
	if !ok {
		return
	}

	events, results, err := h.Syncer.Compile(req.Courses, req.Window())
	if err != nil {
		if errors.Is(err, calsync.ErrInvalidRequest) {
			utils.JSONError(c, http.StatusBadRequest, "Missing courses or dates", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to export calendar", err.Error())
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "No course could be compiled",
			"success": false,
			"results": results,
		})
		return
	}

	body := calendar.BuildICS(events, h.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
