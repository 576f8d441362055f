package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	ReportTypeAttendance = "attendance"
	ReportTypeHours      = "hours"
	ReportTypeOvertime   = "overtime"
	ReportTypeProject    = "project"

	reportTablePageSize = 20
)

// ReportRequest selects the window, subject and presentation of a report.
type ReportRequest struct {
	ReportType string
	StartDate  time.Time
	EndDate    time.Time
	UserID     *int64
	Page       int
}

// ChartDataset is one series of a rendered chart.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
}

// ChartData is a chart.js-shaped payload.
type ChartData struct {
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ReportSummary holds the headline figures for the window.
type ReportSummary struct {
	TotalHours     float64 `json:"total_hours"`
	RegularHours   float64 `json:"regular_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// ReportTable is one page of the report's tabular view.
type ReportTable struct {
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
}

// Report is the full report payload.
type Report struct {
	ReportType     string        `json:"report_type"`
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	Summary        ReportSummary `json:"summary"`
	MainChart      ChartData     `json:"main_chart"`
	SecondaryChart ChartData     `json:"secondary_chart"`
	Table          ReportTable   `json:"table"`
}

// ReportService builds attendance, hours, overtime and project reports
// over a date window.
type ReportService interface {
	BuildReport(ctx context.Context, actor *models.User, req ReportRequest) (*Report, error)
}

type reportService struct {
	entryRepo repository.TimeEntryRepository
	logger    *logrus.Logger
}

// NewReportService creates a new ReportService instance.
func NewReportService(entryRepo repository.TimeEntryRepository, logger *logrus.Logger) ReportService {
	return &reportService{entryRepo: entryRepo, logger: logger}
}

func (s *reportService) BuildReport(ctx context.Context, actor *models.User, req ReportRequest) (*Report, error) {
	// Employees only ever see their own data, whatever they asked for.
	subject := req.UserID
	if !models.HasRole(actor.Role, models.RoleManager) {
		own := actor.ID
		subject = &own
	}

	start := dayStart(req.StartDate)
	// The window is inclusive of the end date.
	end := dayStart(req.EndDate).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, Validationf("end date must not be before start date")
	}

	entries, err := s.entryRepo.ListForRange(ctx, subject, start, end)
	if err != nil {
		return nil, err
	}

	reportType := req.ReportType
	switch reportType {
	case ReportTypeHours, ReportTypeOvertime, ReportTypeProject, ReportTypeAttendance:
	default:
		reportType = ReportTypeAttendance
	}

	summary := buildSummary(entries, start, end)
	report := &Report{
		ReportType:     reportType,
		StartDate:      req.StartDate.Format("2006-01-02"),
		EndDate:        req.EndDate.Format("2006-01-02"),
		Summary:        summary,
		SecondaryChart: buildBreakdownChart(summary),
	}

	switch reportType {
	case ReportTypeHours:
		report.MainChart = buildDailyChart("bar", "Hours Worked", entries, start, end, workedHours, "#36A2EB")
	case ReportTypeOvertime:
		report.MainChart = buildDailyChart("bar", "Overtime Hours", entries, start, end, overtimeHours, "#FF6384")
	case ReportTypeProject:
		report.MainChart = buildProjectChart(entries)
	default:
		report.MainChart = buildDailyChart("line", "Daily Hours", entries, start, end, workedHours, "#4BC0C0")
	}

	// The attendance view shows the clock times per entry; every other
	// view collapses to a per-entry hours row.
	if reportType == ReportTypeAttendance {
		report.Table = buildAttendanceTable(entries, req.Page)
	} else {
		report.Table = buildHoursTable(entries, req.Page)
	}

	s.logger.WithFields(logrus.Fields{
		"report_type": reportType,
		"entries":     len(entries),
	}).Debug("Report built")
	return report, nil
}

func workedHours(entry *models.TimeEntry) float64 {
	return entry.WorkedHours()
}

func overtimeHours(entry *models.TimeEntry) float64 {
	over := entry.WorkedHours() - overtimeThresholdHours
	if over < 0 {
		return 0
	}
	return over
}

func buildSummary(entries []*models.TimeEntry, start, end time.Time) ReportSummary {
	var summary ReportSummary
	daysPresent := make(map[string]bool)

	for _, entry := range entries {
		duration := entry.WorkedHours()
		summary.TotalHours += duration
		if duration > overtimeThresholdHours {
			summary.RegularHours += overtimeThresholdHours
			summary.OvertimeHours += duration - overtimeThresholdHours
		} else {
			summary.RegularHours += duration
		}
		daysPresent[entry.ClockInTime.Format("2006-01-02")] = true
	}

	windowDays := int(end.Sub(start).Hours() / 24)
	if windowDays > 0 {
		summary.AttendanceRate = float64(len(daysPresent)) / float64(windowDays) * 100
	}
	return summary
}

// buildDailyChart produces one data point per calendar day in the window.
func buildDailyChart(chartType, label string, entries []*models.TimeEntry, start, end time.Time, value func(*models.TimeEntry) float64, color string) ChartData {
	perDay := make(map[string]float64)
	for _, entry := range entries {
		perDay[entry.ClockInTime.Format("2006-01-02")] += value(entry)
	}

	var labels []string
	var data []float64
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		labels = append(labels, key)
		data = append(data, perDay[key])
	}

	return ChartData{
		Type:   chartType,
		Labels: labels,
		Datasets: []ChartDataset{{
			Label:           label,
			Data:            data,
			BackgroundColor: []string{color},
			BorderColor:     []string{color},
		}},
	}
}

func buildProjectChart(entries []*models.TimeEntry) ChartData {
	perProject := make(map[string]float64)
	var order []string
	for _, entry := range entries {
		name := "No Project"
		if entry.Project != nil {
			name = entry.Project.Name
		}
		if _, seen := perProject[name]; !seen {
			order = append(order, name)
		}
		perProject[name] += entry.WorkedHours()
	}

	palette := []string{"#36A2EB", "#FF6384", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40"}
	var data []float64
	var colors []string
	for i, name := range order {
		data = append(data, perProject[name])
		colors = append(colors, palette[i%len(palette)])
	}

	return ChartData{
		Type:   "pie",
		Labels: order,
		Datasets: []ChartDataset{{
			Label:           "Hours by Project",
			Data:            data,
			BackgroundColor: colors,
			BorderColor:     colors,
		}},
	}
}

func buildBreakdownChart(summary ReportSummary) ChartData {
	colors := []string{"#36A2EB", "#FF6384", "#FFCE56"}
	return ChartData{
		Type:   "doughnut",
		Labels: []string{"Regular Hours", "Overtime Hours", "Break Time"},
		Datasets: []ChartDataset{{
			Label:           "Hours Breakdown",
			Data:            []float64{summary.RegularHours, summary.OvertimeHours, summary.TotalHours * 0.1},
			BackgroundColor: colors,
			BorderColor:     colors,
		}},
	}
}

// paginateEntries returns the page slice plus the resolved page numbers.
func paginateEntries(entries []*models.TimeEntry, page int) ([]*models.TimeEntry, int, int) {
	if page < 1 {
		page = 1
	}

	totalPages := (len(entries) + reportTablePageSize - 1) / reportTablePageSize
	if totalPages < 1 {
		totalPages = 1
	}

	offset := (page - 1) * reportTablePageSize
	if offset > len(entries) {
		offset = len(entries)
	}
	limit := offset + reportTablePageSize
	if limit > len(entries) {
		limit = len(entries)
	}
	return entries[offset:limit], totalPages, page
}

func buildAttendanceTable(entries []*models.TimeEntry, page int) ReportTable {
	pageEntries, totalPages, page := paginateEntries(entries, page)

	rows := make([][]string, 0, len(pageEntries))
	for _, entry := range pageEntries {
		clockOut := "N/A"
		status := "Incomplete"
		if entry.ClockOutTime != nil {
			clockOut = entry.ClockOutTime.Format("15:04")
			status = "Complete"
		}
		name := ""
		if entry.User != nil {
			name = entry.User.FullName()
		}
		rows = append(rows, []string{
			entry.ClockInTime.Format("2006-01-02"),
			name,
			entry.ClockInTime.Format("15:04"),
			clockOut,
			fmt.Sprintf("%.2f", entry.WorkedHours()),
			status,
		})
	}

	return ReportTable{
		Columns:     []string{"Date", "Employee", "Clock In", "Clock Out", "Hours", "Status"},
		Rows:        rows,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

func buildHoursTable(entries []*models.TimeEntry, page int) ReportTable {
	pageEntries, totalPages, page := paginateEntries(entries, page)

	rows := make([][]string, 0, len(pageEntries))
	for _, entry := range pageEntries {
		name := ""
		if entry.User != nil {
			name = entry.User.FullName()
		}
		notes := entry.Notes
		if notes == "" {
			notes = "N/A"
		}
		rows = append(rows, []string{
			entry.ClockInTime.Format("2006-01-02"),
			name,
			fmt.Sprintf("%.2f", entry.WorkedHours()),
			notes,
		})
	}

	return ReportTable{
		Columns:     []string{"Date", "Employee", "Hours", "Notes"},
		Rows:        rows,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
