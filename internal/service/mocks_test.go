package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret        = "this-is-a-test-secret-with-32-bytes!"
	testAccessExpiry  = 15 * time.Minute
	testRefreshExpiry = 168 * time.Hour
)

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByIDFunc                func(ctx context.Context, id int64) (*models.User, error)
	findByUsernameFunc          func(ctx context.Context, username string) (*models.User, error)
	findByEmailFunc             func(ctx context.Context, email string) (*models.User, error)
	findByGoogleIDFunc          func(ctx context.Context, googleID string) (*models.User, error)
	findByVerificationTokenFunc func(ctx context.Context, token string) (*models.User, error)
	usernameExistsFunc          func(ctx context.Context, username string) (bool, error)
	createFunc                  func(ctx context.Context, user *models.User) error
	updateFunc                  func(ctx context.Context, user *models.User) error
	deleteFunc                  func(ctx context.Context, id int64) error
	listFunc                    func(ctx context.Context) ([]*models.User, error)
	listByRoleFunc              func(ctx context.Context, role string, activeOnly bool) ([]*models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if m.findByGoogleIDFunc != nil {
		return m.findByGoogleIDFunc(ctx, googleID)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if m.findByVerificationTokenFunc != nil {
		return m.findByVerificationTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistsFunc != nil {
		return m.usernameExistsFunc(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role string, activeOnly bool) ([]*models.User, error) {
	if m.listByRoleFunc != nil {
		return m.listByRoleFunc(ctx, role, activeOnly)
	}
	return nil, nil
}

// =============================================================================
// Mock TimeEntryRepository
// =============================================================================

type mockTimeEntryRepository struct {
	createOpenFunc       func(ctx context.Context, entry *models.TimeEntry) error
	findByIDFunc         func(ctx context.Context, id int64) (*models.TimeEntry, error)
	findOpenByUserIDFunc func(ctx context.Context, userID int64) (*models.TimeEntry, error)
	updateFunc           func(ctx context.Context, entry *models.TimeEntry) error
	listByUserFunc       func(ctx context.Context, userID int64, filter repository.TimeEntryFilter, page, perPage int) ([]*models.TimeEntry, int64, error)
	listClosedForDayFunc func(ctx context.Context, userID int64, day time.Time) ([]*models.TimeEntry, error)
	listForRangeFunc     func(ctx context.Context, userID *int64, start, end time.Time) ([]*models.TimeEntry, error)
}

func (m *mockTimeEntryRepository) CreateOpen(ctx context.Context, entry *models.TimeEntry) error {
	if m.createOpenFunc != nil {
		return m.createOpenFunc(ctx, entry)
	}
	entry.ID = 1
	return nil
}

func (m *mockTimeEntryRepository) FindByID(ctx context.Context, id int64) (*models.TimeEntry, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) FindOpenByUserID(ctx context.Context, userID int64) (*models.TimeEntry, error) {
	if m.findOpenByUserIDFunc != nil {
		return m.findOpenByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) Update(ctx context.Context, entry *models.TimeEntry) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, entry)
	}
	return nil
}

func (m *mockTimeEntryRepository) ListByUser(ctx context.Context, userID int64, filter repository.TimeEntryFilter, page, perPage int) ([]*models.TimeEntry, int64, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, filter, page, perPage)
	}
	return nil, 0, nil
}

func (m *mockTimeEntryRepository) ListClosedForDay(ctx context.Context, userID int64, day time.Time) ([]*models.TimeEntry, error) {
	if m.listClosedForDayFunc != nil {
		return m.listClosedForDayFunc(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) ListForRange(ctx context.Context, userID *int64, start, end time.Time) ([]*models.TimeEntry, error) {
	if m.listForRangeFunc != nil {
		return m.listForRangeFunc(ctx, userID, start, end)
	}
	return nil, nil
}

// =============================================================================
// Mock GeofenceRepository
// =============================================================================

type mockGeofenceRepository struct {
	listFunc       func(ctx context.Context) ([]*models.Geofence, error)
	listActiveFunc func(ctx context.Context) ([]*models.Geofence, error)
	createFunc     func(ctx context.Context, geofence *models.Geofence) error
}

func (m *mockGeofenceRepository) List(ctx context.Context) ([]*models.Geofence, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockGeofenceRepository) ListActive(ctx context.Context) ([]*models.Geofence, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockGeofenceRepository) Create(ctx context.Context, geofence *models.Geofence) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, geofence)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock DepartmentRepository and ProjectRepository
// =============================================================================

type mockDepartmentRepository struct {
	findByIDFunc   func(ctx context.Context, id int64) (*models.Department, error)
	listFunc       func(ctx context.Context) ([]*models.Department, error)
	listActiveFunc func(ctx context.Context) ([]*models.Department, error)
	createFunc     func(ctx context.Context, department *models.Department) error
}

func (m *mockDepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDepartmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockDepartmentRepository) ListActive(ctx context.Context) ([]*models.Department, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockDepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, department)
	}
	return errors.New("not implemented")
}

type mockProjectRepository struct {
	findByIDFunc func(ctx context.Context, id int64) (*models.Project, error)
	listFunc     func(ctx context.Context) ([]*models.Project, error)
	createFunc   func(ctx context.Context, project *models.Project) error
	deleteFunc   func(ctx context.Context, id int64) error
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	return errors.New("not implemented")
}

func (m *mockProjectRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

// =============================================================================
// Mock Mailer and IdentityProvider
// =============================================================================

type mockMailer struct {
	configured bool
	sent       []string
}

func (m *mockMailer) Send(to, subject, body string) bool {
	m.sent = append(m.sent, to)
	return m.configured
}

func (m *mockMailer) Configured() bool {
	return m.configured
}

type mockIdentityProvider struct {
	authCodeURLFunc func(state string) string
	exchangeFunc    func(ctx context.Context, code string) (*GoogleIdentity, error)
}

func (m *mockIdentityProvider) AuthCodeURL(state string) string {
	if m.authCodeURLFunc != nil {
		return m.authCodeURLFunc(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *mockIdentityProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	if m.exchangeFunc != nil {
		return m.exchangeFunc(ctx, code)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

func floatPtr(f float64) *float64 { return &f }
