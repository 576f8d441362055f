package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// verificationTokenTTL bounds how long an email verification link stays valid.
const verificationTokenTTL = 24 * time.Hour

// RegisterRequest carries the fields of a local registration.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterResult reports what happened alongside the created account.
type RegisterResult struct {
	UserID               int64 `json:"user_id"`
	RequiresApproval     bool  `json:"requires_approval"`
	RequiresVerification bool  `json:"requires_verification"`
}

// RegistrationService provisions local accounts and handles email verification.
type RegistrationService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
}

type registrationService struct {
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewRegistrationService creates a new RegistrationService instance.
func NewRegistrationService(userRepo repository.UserRepository, mailer Mailer, cfg *config.Config, logger *logrus.Logger) RegistrationService {
	return &registrationService{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *registrationService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if !s.cfg.AllowSelfRegistration {
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
	case req.Password == "":
		return nil, Validationf("password is required")
	}

	if !emailPattern.MatchString(email) {
		return nil, Validationf("invalid email format")
	}

	if !s.emailDomainAllowed(email) {
		return nil, Validationf(fmt.Sprintf("registration is restricted to %s email addresses",
			strings.Join(s.cfg.AllowedEmailDomains, ", ")))
	}

	if len(req.Password) < 8 {
		return nil, Validationf("password must be at least 8 characters long")
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
		Role:          models.RoleEmployee,
		IsActive:      !s.cfg.RequireAdminApproval,
		AuthProvider:  models.ProviderLocal,
		EmailVerified: false,
	}

	var verificationToken string
	if s.mailer.Configured() {
		verificationToken = uuid.NewString()
		expires := time.Now().UTC().Add(verificationTokenTTL)
		user.EmailVerificationToken = &verificationToken
		user.EmailVerificationExpires = &expires
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mail goes out after the account is committed; a mail-server outage
	// never affects the registration outcome.
	if verificationToken != "" {
		go s.sendVerificationEmail(user, verificationToken)
	}
	if s.cfg.RequireAdminApproval {
		go s.sendAdminNotification(user)
	}

	return &RegisterResult{
		UserID:               user.ID,
		RequiresApproval:     s.cfg.RequireAdminApproval,
		RequiresVerification: verificationToken != "",
	}, nil
}

func (s *registrationService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if user.EmailVerificationExpires != nil && user.EmailVerificationExpires.Before(time.Now().UTC()) {
		return nil, Validationf("verification link has expired")
	}

	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *registrationService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Validationf("email is required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.EmailVerified {
		return Validationf("email already verified")
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(verificationTokenTTL)
	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	go s.sendVerificationEmail(user, token)
	return nil
}

// uniqueUsername derives a username from the email local part, appending
// an incrementing numeric suffix until it is free. Shared with OAuth
// provisioning so both flows name accounts identically.
func uniqueUsername(ctx context.Context, userRepo repository.UserRepository, email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	username := base
	for counter := 1; ; counter++ {
		exists, err := userRepo.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !exists {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

func (s *registrationService) emailDomainAllowed(email string) bool {
	if len(s.cfg.AllowedEmailDomains) == 0 {
		return true
	}
	parts := strings.Split(email, "@")
	domain := strings.ToLower(parts[len(parts)-1])
	for _, allowed := range s.cfg.AllowedEmailDomains {
		if strings.ToLower(allowed) == domain {
			return true
		}
	}
	return false
}

func (s *registrationService) sendVerificationEmail(user *models.User, token string) {
	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", s.cfg.BaseURL, token)
	subject := fmt.Sprintf("Verify your %s account", s.cfg.OrganizationName)
	body := fmt.Sprintf(
		"Hello %s,\n\nWelcome to %s! Please verify your email address by opening the link below:\n\n%s\n\nThis link will expire in 24 hours.\n\nIf you didn't create an account, please ignore this email.\n\nBest regards,\n%s Team\n",
		user.FirstName, s.cfg.OrganizationName, verificationURL, s.cfg.OrganizationName,
	)

	if !s.mailer.Send(user.Email, subject, body) {
		s.logger.WithField("user_id", user.ID).Warn("Verification email not sent")
	}
}

func (s *registrationService) sendAdminNotification(user *models.User) {
	admins, err := s.userRepo.ListByRole(context.Background(), models.RoleAdmin, true)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list admins for registration notification")
		return
	}

	subject := fmt.Sprintf("New user registration requires approval - %s", s.cfg.OrganizationName)
	for _, admin := range admins {
		body := fmt.Sprintf(
			"Hello %s,\n\nA new user has registered for %s and requires approval:\n\nName: %s\nEmail: %s\n\nPlease review and approve the user account.\n\nBest regards,\n%s System\n",
			admin.FirstName, s.cfg.OrganizationName, user.FullName(), user.Email, s.cfg.OrganizationName,
		)
		s.mailer.Send(admin.Email, subject, body)
	}
}
