package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleIdentity is the normalized identity returned by the provider
// after a successful code exchange.
type GoogleIdentity struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// IdentityProvider exchanges an authorization code for a verified identity.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

type googleProvider struct {
	oauth *oauth2.Config
}

// NewGoogleProvider creates an IdentityProvider backed by Google's OAuth2
// endpoints.
func NewGoogleProvider(cfg *config.Config) IdentityProvider {
	return &googleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned status %d", ErrOAuthExchangeFailed, resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: decoding userinfo: %v", ErrOAuthExchangeFailed, err)
	}
	if identity.ID == "" || identity.Email == "" {
		return nil, fmt.Errorf("%w: incomplete user information", ErrOAuthExchangeFailed)
	}
	return &identity, nil
}

// GoogleOutcome reports how the callback resolved the identity, so that
// callers can audit a link or a fresh provisioning distinctly.
type GoogleOutcome string

const (
	GoogleOutcomeExisting GoogleOutcome = "existing"
	GoogleOutcomeLinked   GoogleOutcome = "linked"
	GoogleOutcomeCreated  GoogleOutcome = "created"
)

// OAuthService runs the Google login flow: exchange the code, provision
// or link the account, and hand out tokens.
type OAuthService interface {
	AuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*LoginResponse, GoogleOutcome, error)
}

type oauthService struct {
	provider    IdentityProvider
	userRepo    repository.UserRepository
	authService AuthService
	cfg         *config.Config
	logger      *logrus.Logger
}

// NewOAuthService creates a new OAuthService instance.
func NewOAuthService(provider IdentityProvider, userRepo repository.UserRepository, authService AuthService, cfg *config.Config, logger *logrus.Logger) OAuthService {
	return &oauthService{
		provider:    provider,
		userRepo:    userRepo,
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *oauthService) AuthURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

func (s *oauthService) HandleCallback(ctx context.Context, code string) (*LoginResponse, GoogleOutcome, error) {
	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}

	email := strings.ToLower(identity.Email)
	if !s.emailDomainAllowed(email) {
		return nil, "", Validationf("email domain is not allowed")
	}

	user, outcome, err := s.provisionUser(ctx, identity, email)
	if err != nil {
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", ErrAccountPending
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", err
	}

	response, err := s.authService.TokensFor(ctx, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return response, outcome, nil
}

// provisionUser resolves the identity to an account: by google id first,
// then by email (linking the provider to an existing local account),
// otherwise by creating a fresh employee account. Google emails are
// trusted as verified.
func (s *oauthService) provisionUser(ctx context.Context, identity *GoogleIdentity, email string) (*models.User, GoogleOutcome, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, identity.ID)
	if err != nil {
		return nil, "", err
	}
	if user != nil {
		return user, GoogleOutcomeExisting, nil
	}

	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user != nil {
		googleID := identity.ID
		user.GoogleID = &googleID
		user.ProfilePicture = identity.Picture
		user.EmailVerified = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, "", err
		}
		s.logger.WithField("user_id", user.ID).Info("Linked Google account to existing user")
		return user, GoogleOutcomeLinked, nil
	}

	username, err := uniqueUsername(ctx, s.userRepo, email)
	if err != nil {
		return nil, "", err
	}

	googleID := identity.ID
	user = &models.User{
		Username:       username,
		Email:          email,
		FirstName:      identity.GivenName,
		LastName:       identity.FamilyName,
		GoogleID:       &googleID,
		ProfilePicture: identity.Picture,
		Role:           models.RoleEmployee,
		IsActive:       !s.cfg.RequireAdminApproval,
		AuthProvider:   models.ProviderGoogle,
		EmailVerified:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}
	s.logger.WithField("user_id", user.ID).Info("Created user from Google identity")
	return user, GoogleOutcomeCreated, nil
}

func (s *oauthService) emailDomainAllowed(email string) bool {
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
