package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/database"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      models.RoleEmployee,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedClosedEntry(t *testing.T, db *gorm.DB, userID int64, clockIn time.Time, hours float64) *models.TimeEntry {
	t.Helper()

	clockOut := clockIn.Add(time.Duration(hours * float64(time.Hour)))
	entry := &models.TimeEntry{
		UserID:       userID,
		ClockInTime:  clockIn,
		ClockOutTime: &clockOut,
		TotalHours:   &hours,
		Status:       models.EntryStatusActive,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("Failed to seed entry: %v", err)
	}
	return entry
}

// =============================================================================
// Open-Entry Invariant Tests
// =============================================================================

func TestCreateOpen_SecondOpenEntryRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	first := &models.TimeEntry{UserID: user.ID, ClockInTime: time.Now().UTC()}
	if err := repo.CreateOpen(ctx, first); err != nil {
		t.Fatalf("CreateOpen() first entry error = %v", err)
	}

	second := &models.TimeEntry{UserID: user.ID, ClockInTime: time.Now().UTC()}
	err := repo.CreateOpen(ctx, second)

	if !errors.Is(err, ErrOpenEntryExists) {
		t.Errorf("CreateOpen() second entry error = %v, want %v", err, ErrOpenEntryExists)
	}
}

func TestCreateOpen_AllowedAfterClockOut(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	first := &models.TimeEntry{UserID: user.ID, ClockInTime: time.Now().UTC().Add(-9 * time.Hour)}
	if err := repo.CreateOpen(ctx, first); err != nil {
		t.Fatalf("CreateOpen() error = %v", err)
	}

	clockOut := time.Now().UTC()
	hours := 9.0
	first.ClockOutTime = &clockOut
	first.TotalHours = &hours
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	second := &models.TimeEntry{UserID: user.ID, ClockInTime: time.Now().UTC()}
	if err := repo.CreateOpen(ctx, second); err != nil {
		t.Errorf("CreateOpen() after clock-out error = %v", err)
	}
}

func TestCreateOpen_DifferentUsersUnaffected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	anna := seedUser(t, db, "anna.berzina")
	janis := seedUser(t, db, "janis.ozols")
	ctx := context.Background()

	if err := repo.CreateOpen(ctx, &models.TimeEntry{UserID: anna.ID, ClockInTime: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateOpen() for first user error = %v", err)
	}
	if err := repo.CreateOpen(ctx, &models.TimeEntry{UserID: janis.ID, ClockInTime: time.Now().UTC()}); err != nil {
		t.Errorf("CreateOpen() for second user error = %v", err)
	}
}

func TestFindOpenByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	got, err := repo.FindOpenByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindOpenByUserID() error = %v", err)
	}
	if got != nil {
		t.Error("FindOpenByUserID() = entry, want nil before clock-in")
	}

	open := &models.TimeEntry{UserID: user.ID, ClockInTime: time.Now().UTC()}
	if err := repo.CreateOpen(ctx, open); err != nil {
		t.Fatalf("CreateOpen() error = %v", err)
	}

	got, err = repo.FindOpenByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindOpenByUserID() error = %v", err)
	}
	if got == nil || got.ID != open.ID {
		t.Errorf("FindOpenByUserID() = %v, want entry %d", got, open.ID)
	}
}

// =============================================================================
// Listing Tests
// =============================================================================

func TestListClosedForDay_WindowAndClosedOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	seedClosedEntry(t, db, user.ID, day.Add(9*time.Hour), 4)
	seedClosedEntry(t, db, user.ID, day.Add(14*time.Hour), 3)
	// Previous day, out of the window.
	seedClosedEntry(t, db, user.ID, day.Add(-10*time.Hour), 8)
	// Open entry on the day, excluded.
	if err := repo.CreateOpen(ctx, &models.TimeEntry{UserID: user.ID, ClockInTime: day.Add(18 * time.Hour)}); err != nil {
		t.Fatalf("CreateOpen() error = %v", err)
	}

	entries, err := repo.ListClosedForDay(ctx, user.ID, day)

	if err != nil {
		t.Fatalf("ListClosedForDay() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("ListClosedForDay() returned %d entries, want 2", len(entries))
	}
}

func TestListByUser_PaginationAndOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedClosedEntry(t, db, user.ID, base.AddDate(0, 0, i), 8)
	}

	entries, total, err := repo.ListByUser(ctx, user.ID, TimeEntryFilter{}, 1, 2)

	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if total != 5 {
		t.Errorf("ListByUser() total = %d, want 5", total)
	}
	if len(entries) != 2 {
		t.Fatalf("ListByUser() returned %d entries, want 2", len(entries))
	}
	if !entries[0].ClockInTime.After(entries[1].ClockInTime) {
		t.Error("ListByUser() should order newest first")
	}
}

func TestListByUser_DateFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	user := seedUser(t, db, "anna.berzina")
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedClosedEntry(t, db, user.ID, base.AddDate(0, 0, i), 8)
	}

	// End is exclusive: days 1-3 of the run.
	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 4)
	_, total, err := repo.ListByUser(ctx, user.ID, TimeEntryFilter{Start: &start, End: &end}, 1, 20)

	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if total != 3 {
		t.Errorf("ListByUser() filtered total = %d, want 3", total)
	}
}

func TestListForRange_AllUsersAndSingleUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTimeEntryRepository(db)
	anna := seedUser(t, db, "anna.berzina")
	janis := seedUser(t, db, "janis.ozols")
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	seedClosedEntry(t, db, anna.ID, day, 8)
	seedClosedEntry(t, db, janis.ID, day.Add(time.Hour), 6)

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	all, err := repo.ListForRange(ctx, nil, start, end)
	if err != nil {
		t.Fatalf("ListForRange() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListForRange(nil) returned %d entries, want 2", len(all))
	}
	if all[0].User == nil {
		t.Error("ListForRange() should preload the user")
	}

	mine, err := repo.ListForRange(ctx, &anna.ID, start, end)
	if err != nil {
		t.Fatalf("ListForRange() error = %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != anna.ID {
		t.Errorf("ListForRange(user) = %d entries, want 1 for the user", len(mine))
	}
}
