package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserPatch describes an administrative edit of a user. Nil fields are
// left untouched. Role and IsActive changes require the admin role.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Role         *string
	DepartmentID *int64
	HireDate     *time.Time
	IsActive     *bool
}

// CreateUserRequest carries the fields of an administratively created
// account. The username is derived from the email like self-registration.
type CreateUserRequest struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Role         string
	DepartmentID *int64
	HireDate     *time.Time
}

// AdminService covers user administration and the department, project
// and geofence reference data.
type AdminService interface {
	ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error)
	CreateUser(ctx context.Context, actor *models.User, req CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, actor *models.User, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, actor *models.User, userID int64, patch UserPatch) (*models.User, error)
	DeactivateUser(ctx context.Context, actor *models.User, userID int64) error
	ListEmployees(ctx context.Context, actor *models.User) ([]*models.User, error)

	ListDepartments(ctx context.Context) ([]*models.Department, error)
	CreateDepartment(ctx context.Context, actor *models.User, department *models.Department) error
	ListProjects(ctx context.Context) ([]*models.Project, error)
	CreateProject(ctx context.Context, actor *models.User, project *models.Project) error
	DeleteProject(ctx context.Context, actor *models.User, projectID int64) error
	ListGeofences(ctx context.Context, actor *models.User) ([]*models.Geofence, error)
	CreateGeofence(ctx context.Context, actor *models.User, geofence *models.Geofence) error
}

type adminService struct {
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
	projectRepo    repository.ProjectRepository
	geofenceRepo   repository.GeofenceRepository
	logger         *logrus.Logger
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
	projectRepo repository.ProjectRepository,
	geofenceRepo repository.GeofenceRepository,
	logger *logrus.Logger,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		projectRepo:    projectRepo,
		geofenceRepo:   geofenceRepo,
		logger:         logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !models.HasRole(actor.Role, models.RoleHR) {
		return nil, ErrUnauthorized
	}
	return s.userRepo.List(ctx)
}

// CreateUser provisions an account without the self-registration gates:
// admin-created accounts are active and email-verified immediately.
func (s *adminService) CreateUser(ctx context.Context, actor *models.User, req CreateUserRequest) (*models.User, error) {
	if !models.HasRole(actor.Role, models.RoleAdmin) {
		return nil, ErrUnauthorized
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case firstName == "":
		return nil, Validationf("first name is required")
	case lastName == "":
		return nil, Validationf("last name is required")
	case email == "":
		return nil, Validationf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, Validationf("invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, Validationf("password must be at least 8 characters long")
	}

	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if models.RoleLevel(role) == 0 {
		return nil, Validationf("unknown role")
	}

	if req.DepartmentID != nil {
		department, err := s.departmentRepo.FindByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		if department == nil {
			return nil, Validationf("department does not exist")
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Validationf("email address already registered")
	}

	username, err := uniqueUsername(ctx, s.userRepo, email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		PasswordHash:  string(hash),
		Role:          role,
		DepartmentID:  req.DepartmentID,
		HireDate:      req.HireDate,
		IsActive:      true,
		AuthProvider:  models.ProviderLocal,
		EmailVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  user.ID,
		"role":     user.Role,
	}).Info("User created")
	return user, nil
}

func (s *adminService) GetUser(ctx context.Context, actor *models.User, userID int64) (*models.User, error) {
	if !models.HasRole(actor.Role, models.RoleHR) && actor.ID != userID {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, actor *models.User, userID int64, patch UserPatch) (*models.User, error) {
	if !models.HasRole(actor.Role, models.RoleHR) {
		return nil, ErrUnauthorized
	}
	// Role assignment and activation are reserved for admins.
	if (patch.Role != nil || patch.IsActive != nil) && !models.HasRole(actor.Role, models.RoleAdmin) {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !emailPattern.MatchString(email) {
			return nil, Validationf("invalid email address")
		}
		user.Email = email
	}
	if patch.Role != nil {
		if models.RoleLevel(*patch.Role) == 0 {
			return nil, Validationf("unknown role")
		}
		user.Role = *patch.Role
	}
	if patch.DepartmentID != nil {
		department, err := s.departmentRepo.FindByID(ctx, *patch.DepartmentID)
		if err != nil {
			return nil, err
		}
		if department == nil {
			return nil, Validationf("department does not exist")
		}
		user.DepartmentID = patch.DepartmentID
	}
	if patch.HireDate != nil {
		user.HireDate = patch.HireDate
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  user.ID,
	}).Info("User updated")
	return user, nil
}

// DeactivateUser disables the account rather than deleting it, so time
// entries and audit history stay attributable.
func (s *adminService) DeactivateUser(ctx context.Context, actor *models.User, userID int64) error {
	if !models.HasRole(actor.Role, models.RoleAdmin) {
		return ErrUnauthorized
	}
	if actor.ID == userID {
		return Validationf("cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}

func (s *adminService) ListEmployees(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !models.HasRole(actor.Role, models.RoleManager) {
		return nil, ErrUnauthorized
	}
	return s.userRepo.ListByRole(ctx, models.RoleEmployee, true)
}

func (s *adminService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.ListActive(ctx)
}

func (s *adminService) CreateDepartment(ctx context.Context, actor *models.User, department *models.Department) error {
	if !models.HasRole(actor.Role, models.RoleAdmin) {
		return ErrUnauthorized
	}
	if strings.TrimSpace(department.Name) == "" {
		return Validationf("department name is required")
	}
	return s.departmentRepo.Create(ctx, department)
}

func (s *adminService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *adminService) CreateProject(ctx context.Context, actor *models.User, project *models.Project) error {
	if !models.HasRole(actor.Role, models.RoleManager) {
		return ErrUnauthorized
	}
	if strings.TrimSpace(project.Name) == "" {
		return Validationf("project name is required")
	}
	return s.projectRepo.Create(ctx, project)
}

func (s *adminService) DeleteProject(ctx context.Context, actor *models.User, projectID int64) error {
	if !models.HasRole(actor.Role, models.RoleAdmin) {
		return ErrUnauthorized
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	return s.projectRepo.Delete(ctx, projectID)
}

func (s *adminService) ListGeofences(ctx context.Context, actor *models.User) ([]*models.Geofence, error) {
	if !models.HasRole(actor.Role, models.RoleHR) {
		return nil, ErrUnauthorized
	}
	return s.geofenceRepo.List(ctx)
}

func (s *adminService) CreateGeofence(ctx context.Context, actor *models.User, geofence *models.Geofence) error {
	if !models.HasRole(actor.Role, models.RoleAdmin) {
		return ErrUnauthorized
	}
	if strings.TrimSpace(geofence.Name) == "" {
		return Validationf("geofence name is required")
	}
	if geofence.Radius <= 0 {
		return Validationf("geofence radius must be positive")
	}
	return s.geofenceRepo.Create(ctx, geofence)
}
