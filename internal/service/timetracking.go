package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// overtimeThresholdHours is the daily total beyond which entries are
// flagged as overtime.
const overtimeThresholdHours = 8.0

// ClockInRequest carries the optional clock-in payload fields.
type ClockInRequest struct {
	Latitude  *float64
	Longitude *float64
	ProjectID *int64
	Notes     string
}

// EntryPatch describes a manager edit of a time entry. Nil fields are
// left untouched.
type EntryPatch struct {
	ClockInTime  *time.Time
	ClockOutTime *time.Time
	Notes        *string
}

// EntrySnapshot captures the audited fields of an entry before and after
// an edit.
type EntrySnapshot struct {
	ClockInTime  string   `json:"clock_in_time"`
	ClockOutTime *string  `json:"clock_out_time"`
	TotalHours   *float64 `json:"total_hours"`
	Notes        string   `json:"notes"`
}

// Status reports whether a user is clocked in, with live duration when open.
type Status struct {
	ClockedIn    bool       `json:"clocked_in"`
	EntryID      int64      `json:"entry_id,omitempty"`
	ClockInTime  *time.Time `json:"clock_in_time,omitempty"`
	CurrentHours float64    `json:"current_hours,omitempty"`
	ProjectID    *int64     `json:"project_id,omitempty"`
}

// DailyBucket is one day of a weekly summary.
type DailyBucket struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Overtime float64 `json:"overtime"`
}

// WeeklySummary aggregates a 7-day window starting at WeekStart.
type WeeklySummary struct {
	WeekStart     string        `json:"week_start"`
	WeekEnd       string        `json:"week_end"`
	DailyHours    []DailyBucket `json:"daily_hours"`
	TotalHours    float64       `json:"total_hours"`
	OvertimeHours float64       `json:"overtime_hours"`
	RegularHours  float64       `json:"regular_hours"`
}

// EntriesPage is one page of a user's time entries.
type EntriesPage struct {
	Entries     []*models.TimeEntry `json:"entries"`
	Total       int64               `json:"total"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
}

// TimeTrackingService owns the time-entry lifecycle: the single-open-entry
// state machine, break accounting and the daily/weekly aggregations.
type TimeTrackingService interface {
	ClockIn(ctx context.Context, userID int64, req ClockInRequest) (*models.TimeEntry, error)
	ClockOut(ctx context.Context, userID int64, breakDuration float64, notes string) (*models.TimeEntry, error)
	StartBreak(ctx context.Context, userID int64) (*models.TimeEntry, error)
	EndBreak(ctx context.Context, userID int64, delta float64) (*models.TimeEntry, error)
	UpdateEntry(ctx context.Context, actor *models.User, entryID int64, patch EntryPatch) (*models.TimeEntry, *EntrySnapshot, *EntrySnapshot, error)
	CurrentStatus(ctx context.Context, userID int64) (*Status, error)
	ListEntries(ctx context.Context, userID int64, filter repository.TimeEntryFilter, page, perPage int) (*EntriesPage, error)
	DailyHours(ctx context.Context, userID int64, day time.Time) (float64, error)
	WeeklySummary(ctx context.Context, userID int64, weekStart *time.Time) (*WeeklySummary, error)
}

type timeTrackingService struct {
	entryRepo repository.TimeEntryRepository
	geofence  GeofenceService
	cfg       *config.Config
	logger    *logrus.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// NewTimeTrackingService creates a new TimeTrackingService instance.
func NewTimeTrackingService(entryRepo repository.TimeEntryRepository, geofence GeofenceService, cfg *config.Config, logger *logrus.Logger) TimeTrackingService {
	return &timeTrackingService{
		entryRepo: entryRepo,
		geofence:  geofence,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *timeTrackingService) ClockIn(ctx context.Context, userID int64, req ClockInRequest) (*models.TimeEntry, error) {
	existing, err := s.entryRepo.FindOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyClockedIn
	}

	hasCoordinates := req.Latitude != nil && req.Longitude != nil
	if hasCoordinates {
		inside, err := s.geofence.WithinActiveZone(ctx, req.Latitude, req.Longitude)
		if err != nil {
			return nil, err
		}
		if !inside {
			return nil, ErrLocationNotAuthorized
		}
	} else if s.cfg.RequireGeofence {
		// Fail closed: enforcement without coordinates is a denial.
		return nil, ErrLocationNotAuthorized
	}

	entry := &models.TimeEntry{
		UserID:      userID,
		ClockInTime: s.now(),
		ProjectID:   req.ProjectID,
		LocationLat: req.Latitude,
		LocationLon: req.Longitude,
		Notes:       req.Notes,
		Status:      models.EntryStatusActive,
	}

	// The unique index on open entries turns a concurrent double
	// clock-in into a duplicate-key error here.
	if err := s.entryRepo.CreateOpen(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrOpenEntryExists) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"entry_id": entry.ID,
	}).Info("User clocked in")
	return entry, nil
}

func (s *timeTrackingService) ClockOut(ctx context.Context, userID int64, breakDuration float64, notes string) (*models.TimeEntry, error) {
	entry, err := s.entryRepo.FindOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotClockedIn
	}
	if breakDuration < 0 {
		return nil, Validationf("break duration cannot be negative")
	}

	clockOut := s.now()
	entry.ClockOutTime = &clockOut
	entry.BreakDuration = breakDuration

	total := clockOut.Sub(entry.ClockInTime).Hours() - breakDuration
	if total < 0 {
		total = 0
	}
	entry.TotalHours = &total

	// Overtime is judged against the whole day, this entry included.
	dayTotal, err := s.DailyHours(ctx, userID, entry.ClockInTime)
	if err != nil {
		return nil, err
	}
	if dayTotal+total > overtimeThresholdHours {
		entry.IsOvertime = true
	}

	if notes != "" {
		if entry.Notes != "" {
			entry.Notes += "\n"
		}
		entry.Notes += fmt.Sprintf("Clock-out notes: %s", notes)
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"entry_id":    entry.ID,
		"total_hours": total,
		"is_overtime": entry.IsOvertime,
	}).Info("User clocked out")
	return entry, nil
}

func (s *timeTrackingService) StartBreak(ctx context.Context, userID int64) (*models.TimeEntry, error) {
	entry, err := s.entryRepo.FindOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotClockedIn
	}
	return entry, nil
}

// EndBreak adds delta hours to the open entry's accumulated break. The
// break interval itself is timed by the caller; only the duration is
// recorded here.
func (s *timeTrackingService) EndBreak(ctx context.Context, userID int64, delta float64) (*models.TimeEntry, error) {
	entry, err := s.entryRepo.FindOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotClockedIn
	}
	if delta < 0 {
		return nil, Validationf("break duration cannot be negative")
	}

	entry.BreakDuration += delta
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *timeTrackingService) UpdateEntry(ctx context.Context, actor *models.User, entryID int64, patch EntryPatch) (*models.TimeEntry, *EntrySnapshot, *EntrySnapshot, error) {
	if !models.HasRole(actor.Role, models.RoleManager) {
		return nil, nil, nil, ErrUnauthorized
	}

	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, nil, nil, err
	}
	if entry == nil {
		return nil, nil, nil, ErrNotFound
	}

	before := snapshotEntry(entry)

	if patch.ClockInTime != nil {
		entry.ClockInTime = *patch.ClockInTime
	}
	if patch.ClockOutTime != nil {
		entry.ClockOutTime = patch.ClockOutTime
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}

	if entry.ClockOutTime != nil {
		total := entry.ClockOutTime.Sub(entry.ClockInTime).Hours() - entry.BreakDuration
		if total < 0 {
			total = 0
		}
		entry.TotalHours = &total
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, nil, nil, err
	}

	after := snapshotEntry(entry)
	return entry, before, after, nil
}

func (s *timeTrackingService) CurrentStatus(ctx context.Context, userID int64) (*Status, error) {
	entry, err := s.entryRepo.FindOpenByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &Status{ClockedIn: false}, nil
	}

	clockIn := entry.ClockInTime
	return &Status{
		ClockedIn:    true,
		EntryID:      entry.ID,
		ClockInTime:  &clockIn,
		CurrentHours: s.now().Sub(entry.ClockInTime).Hours(),
		ProjectID:    entry.ProjectID,
	}, nil
}

func (s *timeTrackingService) ListEntries(ctx context.Context, userID int64, filter repository.TimeEntryFilter, page, perPage int) (*EntriesPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	entries, total, err := s.entryRepo.ListByUser(ctx, userID, filter, page, perPage)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}

	return &EntriesPage{
		Entries:     entries,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	}, nil
}

// DailyHours sums total_hours over the user's closed entries whose
// clock-in falls on the given calendar day. Open entries contribute
// nothing.
func (s *timeTrackingService) DailyHours(ctx context.Context, userID int64, day time.Time) (float64, error) {
	entries, err := s.entryRepo.ListClosedForDay(ctx, userID, day)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, entry := range entries {
		if entry.TotalHours != nil {
			total += *entry.TotalHours
		}
	}
	return total, nil
}

// WeeklySummary returns exactly seven daily buckets starting at
// weekStart, defaulting to the Monday of the current week.
func (s *timeTrackingService) WeeklySummary(ctx context.Context, userID int64, weekStart *time.Time) (*WeeklySummary, error) {
	var start time.Time
	if weekStart != nil {
		start = *weekStart
	} else {
		today := s.now()
		weekday := (int(today.Weekday()) + 6) % 7 // Monday = 0
		start = today.AddDate(0, 0, -weekday)
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	end := start.AddDate(0, 0, 6)

	summary := &WeeklySummary{
		WeekStart:  start.Format("2006-01-02"),
		WeekEnd:    end.Format("2006-01-02"),
		DailyHours: make([]DailyBucket, 0, 7),
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		hours, err := s.DailyHours(ctx, userID, day)
		if err != nil {
			return nil, err
		}

		overtime := hours - overtimeThresholdHours
		if overtime < 0 {
			overtime = 0
		}

		summary.DailyHours = append(summary.DailyHours, DailyBucket{
			Date:     day.Format("2006-01-02"),
			Hours:    hours,
			Overtime: overtime,
		})
		summary.TotalHours += hours
		summary.OvertimeHours += overtime
	}

	summary.RegularHours = summary.TotalHours
	if summary.RegularHours > 40 {
		summary.RegularHours = 40
	}
	return summary, nil
}

func snapshotEntry(entry *models.TimeEntry) *EntrySnapshot {
	snapshot := &EntrySnapshot{
		ClockInTime: entry.ClockInTime.Format(time.RFC3339),
		Notes:       entry.Notes,
	}
	if entry.ClockOutTime != nil {
		formatted := entry.ClockOutTime.Format(time.RFC3339)
		snapshot.ClockOutTime = &formatted
	}
	if entry.TotalHours != nil {
		hours := *entry.TotalHours
		snapshot.TotalHours = &hours
	}
	return snapshot
}
