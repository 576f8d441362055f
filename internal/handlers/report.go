package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler handles report HTTP requests.
type ReportHandler struct {
	reportService service.ReportService
	logger        *logrus.Logger
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(reportService service.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// GetReport godoc
// @Summary Build a report
// @Description Build an attendance, hours, overtime or project report over a date window. Employees always see their own data; managers may select a user or the whole team.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param report_type query string false "attendance | hours | overtime | project"
// @Param start_date query string true "Window start (YYYY-MM-DD)"
// @Param end_date query string true "Window end (YYYY-MM-DD)"
// @Param user_id query int false "Subject user (manager and above)"
// @Param page query int false "Table page"
// @Success 200 {object} service.Report
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	user := CurrentUser(c)

	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "end_date must be YYYY-MM-DD")
		return
	}

	req := service.ReportRequest{
		ReportType: c.DefaultQuery("report_type", service.ReportTypeAttendance),
		StartDate:  start,
		EndDate:    end,
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, CodeValidationError, "user_id must be an integer")
			return
		}
		req.UserID = &userID
	}
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))

	report, err := h.reportService.BuildReport(c.Request.Context(), user, req)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReport godoc
// @Summary Export a report
// @Description Placeholder for file export; not implemented yet
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Failure 501 {object} ErrorResponse
// @Router /reports/export [get]
func (h *ReportHandler) ExportReport(c *gin.Context) {
	// TODO: spreadsheet export once a format is agreed with HR.
	RespondError(c, http.StatusNotImplemented, CodeNotImplemented, "report export is not implemented")
}
