package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TimeHandler handles time-entry HTTP requests.
type TimeHandler struct {
	timeService  service.TimeTrackingService
	auditService service.AuditService
	logger       *logrus.Logger
}

// NewTimeHandler creates a new TimeHandler instance.
func NewTimeHandler(timeService service.TimeTrackingService, auditService service.AuditService, logger *logrus.Logger) *TimeHandler {
	return &TimeHandler{
		timeService:  timeService,
		auditService: auditService,
		logger:       logger,
	}
}

// ClockInRequest represents the clock-in request payload.
type ClockInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ProjectID *int64   `json:"project_id"`
	Notes     string   `json:"notes"`
}

// ClockOutRequest represents the clock-out request payload.
type ClockOutRequest struct {
	BreakDuration float64 `json:"break_duration"`
	Notes         string  `json:"notes"`
}

// BreakEndRequest represents the break-end request payload. Duration
// has no binding tag so an explicit zero is accepted; the service
// rejects negatives.
type BreakEndRequest struct {
	Duration float64 `json:"duration"`
}

// UpdateEntryRequest represents a manager edit of a time entry.
type UpdateEntryRequest struct {
	ClockInTime  *time.Time `json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time"`
	Notes        *string    `json:"notes"`
}

// ClockIn godoc
// @Summary Clock in
// @Description Open a time entry for the current user, enforcing geofence rules when coordinates are supplied
// @Tags time
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClockInRequest true "Clock-in details"
// @Success 201 {object} models.TimeEntry
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /clock-in [post]
func (h *TimeHandler) ClockIn(c *gin.Context) {
	user := CurrentUser(c)

	var req ClockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}
	}

	entry, err := h.timeService.ClockIn(c.Request.Context(), user.ID, service.ClockInRequest{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ProjectID: req.ProjectID,
		Notes:     req.Notes,
	})
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.LogChange(c.Request.Context(), user.ID, models.ActionClockIn, entry.TableName(), entry.ID, nil, entry, requestMeta(c))
	c.JSON(http.StatusCreated, entry)
}

// ClockOut godoc
// @Summary Clock out
// @Description Close the open time entry, recording break time and computing totals
// @Tags time
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClockOutRequest true "Clock-out details"
// @Success 200 {object} models.TimeEntry
// @Failure 400 {object} ErrorResponse
// @Router /clock-out [post]
func (h *TimeHandler) ClockOut(c *gin.Context) {
	user := CurrentUser(c)

	var req ClockOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}
	}

	entry, err := h.timeService.ClockOut(c.Request.Context(), user.ID, req.BreakDuration, req.Notes)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.LogChange(c.Request.Context(), user.ID, models.ActionClockOut, entry.TableName(), entry.ID, nil, entry, requestMeta(c))
	c.JSON(http.StatusOK, entry)
}

// BreakStart godoc
// @Summary Start a break
// @Description Mark a break as started on the open entry
// @Tags time
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /break-start [post]
func (h *TimeHandler) BreakStart(c *gin.Context) {
	user := CurrentUser(c)

	entry, err := h.timeService.StartBreak(c.Request.Context(), user.ID)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, models.ActionBreakStart, requestMeta(c))
	c.JSON(http.StatusOK, gin.H{"message": "break started", "entry_id": entry.ID})
}

// BreakEnd godoc
// @Summary End a break
// @Description Add the elapsed break duration, in hours, to the open entry
// @Tags time
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BreakEndRequest true "Break duration in hours"
// @Success 200 {object} models.TimeEntry
// @Failure 400 {object} ErrorResponse
// @Router /break-end [post]
func (h *TimeHandler) BreakEnd(c *gin.Context) {
	user := CurrentUser(c)

	var req BreakEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	entry, err := h.timeService.EndBreak(c.Request.Context(), user.ID, req.Duration)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, models.ActionBreakEnd, requestMeta(c))
	c.JSON(http.StatusOK, entry)
}

// CurrentStatus godoc
// @Summary Current clock status
// @Description Report whether the current user is clocked in, with live duration
// @Tags time
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Status
// @Router /current-status [get]
func (h *TimeHandler) CurrentStatus(c *gin.Context) {
	user := CurrentUser(c)

	status, err := h.timeService.CurrentStatus(c.Request.Context(), user.ID)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListEntries godoc
// @Summary List time entries
// @Description Page through the current user's entries, optionally windowed by date
// @Tags time
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Window start (YYYY-MM-DD)"
// @Param end_date query string false "Window end (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} service.EntriesPage
// @Router /time-entries [get]
func (h *TimeHandler) ListEntries(c *gin.Context) {
	user := CurrentUser(c)

	var filter repository.TimeEntryFilter
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "start_date must be YYYY-MM-DD")
			return
		}
		filter.Start = &start
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "end_date must be YYYY-MM-DD")
			return
		}
		// Inclusive end date.
		endExclusive := end.AddDate(0, 0, 1)
		filter.End = &endExclusive
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := h.timeService.ListEntries(c.Request.Context(), user.ID, filter, page, perPage)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateEntry godoc
// @Summary Edit a time entry
// @Description Correct an entry's timestamps or notes; totals are recomputed. Manager role required.
// @Tags time
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body UpdateEntryRequest true "Fields to change"
// @Success 200 {object} models.TimeEntry
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /time-entries/{id} [put]
func (h *TimeHandler) UpdateEntry(c *gin.Context) {
	user := CurrentUser(c)

	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid entry id")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	entry, before, after, err := h.timeService.UpdateEntry(c.Request.Context(), user, entryID, service.EntryPatch{
		ClockInTime:  req.ClockInTime,
		ClockOutTime: req.ClockOutTime,
		Notes:        req.Notes,
	})
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.LogChange(c.Request.Context(), user.ID, models.ActionUpdateTimeEntry, entry.TableName(), entry.ID, before, after, requestMeta(c))
	c.JSON(http.StatusOK, entry)
}

// WeeklySummary godoc
// @Summary Weekly summary
// @Description Aggregate the current user's hours across a 7-day window
// @Tags time
// @Produce json
// @Security BearerAuth
// @Param week_start query string false "Week start (YYYY-MM-DD), defaults to the current week's Monday"
// @Success 200 {object} service.WeeklySummary
// @Router /weekly-summary [get]
func (h *TimeHandler) WeeklySummary(c *gin.Context) {
	user := CurrentUser(c)

	var weekStart *time.Time
	if raw := c.Query("week_start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "week_start must be YYYY-MM-DD")
			return
		}
		weekStart = &parsed
	}

	summary, err := h.timeService.WeeklySummary(c.Request.Context(), user.ID, weekStart)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
