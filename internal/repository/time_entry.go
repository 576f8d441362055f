package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/gorm"
)

// ErrOpenEntryExists is returned by CreateOpen when the partial unique
// index rejects a second open entry for the same user.
var ErrOpenEntryExists = errors.New("user already has an open time entry")

// TimeEntryFilter narrows ListByUser to a clock-in window of
// [Start, End). Nil bounds are unconstrained.
type TimeEntryFilter struct {
	Start *time.Time
	End   *time.Time
}

// TimeEntryRepository defines the interface for time entry data operations.
// Find methods return (nil, nil) when no row matches.
type TimeEntryRepository interface {
	CreateOpen(ctx context.Context, entry *models.TimeEntry) error
	FindByID(ctx context.Context, id int64) (*models.TimeEntry, error)
	FindOpenByUserID(ctx context.Context, userID int64) (*models.TimeEntry, error)
	Update(ctx context.Context, entry *models.TimeEntry) error
	ListByUser(ctx context.Context, userID int64, filter TimeEntryFilter, page, perPage int) ([]*models.TimeEntry, int64, error)
	ListClosedForDay(ctx context.Context, userID int64, day time.Time) ([]*models.TimeEntry, error)
	ListForRange(ctx context.Context, userID *int64, start, end time.Time) ([]*models.TimeEntry, error)
}

type timeEntryRepository struct {
	db *gorm.DB
}

// NewTimeEntryRepository creates a new TimeEntryRepository instance.
func NewTimeEntryRepository(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

// CreateOpen inserts a new open entry. The check for an existing open
// entry happens in the service; the partial unique index closes the
// check-then-insert race, surfacing here as ErrOpenEntryExists.
func (r *timeEntryRepository) CreateOpen(ctx context.Context, entry *models.TimeEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrOpenEntryExists
	}
	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	return nil
}

func (r *timeEntryRepository) FindByID(ctx context.Context, id int64) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).Preload("User").Preload("Project").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find time entry %d: %w", id, err)
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindOpenByUserID(ctx context.Context, userID int64) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND clock_out_time IS NULL", userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open entry for user %d: %w", userID, err)
	}
	return &entry, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *models.TimeEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update time entry %d: %w", entry.ID, err)
	}
	return nil
}

func (r *timeEntryRepository) ListByUser(ctx context.Context, userID int64, filter TimeEntryFilter, page, perPage int) ([]*models.TimeEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TimeEntry{}).Where("user_id = ?", userID)
	if filter.Start != nil {
		query = query.Where("clock_in_time >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("clock_in_time < ?", *filter.End)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count time entries for user %d: %w", userID, err)
	}

	var entries []*models.TimeEntry
	err := query.Preload("Project").
		Order("clock_in_time DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time entries for user %d: %w", userID, err)
	}
	return entries, total, nil
}

// ListClosedForDay returns the user's closed entries whose clock-in falls
// on the given calendar day.
func (r *timeEntryRepository) ListClosedForDay(ctx context.Context, userID int64, day time.Time) ([]*models.TimeEntry, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var entries []*models.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND clock_in_time >= ? AND clock_in_time < ? AND total_hours IS NOT NULL",
			userID, startOfDay, endOfDay).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for user %d on %s: %w",
			userID, day.Format("2006-01-02"), err)
	}
	return entries, nil
}

// ListForRange returns entries with clock-in inside [start, end), across
// all users when userID is nil.
func (r *timeEntryRepository) ListForRange(ctx context.Context, userID *int64, start, end time.Time) ([]*models.TimeEntry, error) {
	query := r.db.WithContext(ctx).
		Where("clock_in_time >= ? AND clock_in_time < ?", start, end)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var entries []*models.TimeEntry
	err := query.Preload("User").Preload("Project").
		Order("clock_in_time").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries in range: %w", err)
	}
	return entries, nil
}
