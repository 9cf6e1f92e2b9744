package handlers

import (
	"errors"
	"io"
	"net/http"

	"coursecal/models"
	ai "coursecal/services/intelligence"
	"coursecal/utils"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ParseScheduleResponse is returned by the parse endpoint. The courses are
// candidates for review; nothing is written to a calendar.
type ParseScheduleResponse struct {
	Courses []models.Course `json:"courses"`
	Source  string          `json:"source"`
}

// ScheduleHandler serves schedule image extraction.
type ScheduleHandler struct {
	Extractor ai.Extractor
}

func NewScheduleHandler(extractor ai.Extractor) *ScheduleHandler {
	return &ScheduleHandler{Extractor: extractor}
}

// ParseScheduleHandler accepts a multipart upload with "file", "startDate"
// and "endDate" and returns the extracted courses.
func (h *ScheduleHandler) ParseScheduleHandler(c *gin.Context) {
	logger := getLogger(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "File too large", err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Missing file or dates", err.Error())
		return
	}
	startRaw, endRaw := c.PostForm("startDate"), c.PostForm("endDate")
	if startRaw == "" || endRaw == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing file or dates", "")
		return
	}

	window, err := parseWindow(startRaw, endRaw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid dates", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read file", err.Error())
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read file", err.Error())
		return
	}

	result, err := h.Extractor.Extract(c.Request.Context(), ai.ExtractRequest{
		Image:     image,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Window:    window,
	})
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrUnsupportedImage):
			utils.JSONError(c, http.StatusUnsupportedMediaType, "Unsupported image type", err.Error())
		case errors.Is(err, ai.ErrUpstream):
			utils.JSONError(c, http.StatusBadGateway, "Failed to parse schedule", err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Failed to parse schedule", err.Error())
		}
		return
	}

	logger.Info("Schedule parsed",
		zap.String("file", fileHeader.Filename),
		zap.Int("courses", len(result.Courses)),
		zap.String("source", result.Source),
	)
	c.JSON(http.StatusOK, ParseScheduleResponse{Courses: result.Courses, Source: result.Source})
}

func parseWindow(startRaw, endRaw string) (models.SemesterWindow, error) {
	start, err := civil.ParseDate(startRaw)
	if err != nil {
		return models.SemesterWindow{}, err
	}
	end, err := civil.ParseDate(endRaw)
	if err != nil {
		return models.SemesterWindow{}, err
	}
	window := models.SemesterWindow{Start: start, End: end}
	if !window.Valid() {
		return models.SemesterWindow{}, errors.New("startDate must not be after endDate")
	}
	return window, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
