package handlers

import (
	"net/http"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const oauthStateCookie = "oauth_state"

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService         service.AuthService
	registrationService service.RegistrationService
	oauthService        service.OAuthService
	auditService        service.AuditService
	logger              *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authService service.AuthService,
	registrationService service.RegistrationService,
	oauthService service.OAuthService,
	auditService service.AuditService,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		registrationService: registrationService,
		oauthService:        oauthService,
		auditService:        auditService,
		logger:              logger,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterRequest represents the self-registration request payload.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// ResendVerificationRequest represents the resend-verification payload.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.auditService.Log(c.Request.Context(), 0, models.ActionLoginFailure, requestMeta(c))
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), response.UserID, models.ActionLoginSuccess, requestMeta(c))
	c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary User logout
// @Description Invalidate the stored refresh token
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		RespondError(c, http.StatusUnauthorized, CodeUnauthorized, "unauthorized")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, models.ActionLogout, requestMeta(c))
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Refresh godoc
// @Summary Refresh access token
// @Description Get new access and refresh tokens using a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Register godoc
// @Summary Register a new account
// @Description Create a local account; a verification email is sent when mail is configured
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} service.RegisterResult
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), service.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), result.UserID, models.ActionUserRegistered, requestMeta(c))
	c.JSON(http.StatusCreated, result)
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Confirm an account's email using the mailed token
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "token is required")
		return
	}

	user, err := h.registrationService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, models.ActionEmailVerified, requestMeta(c))
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// ResendVerification godoc
// @Summary Resend verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}

	if err := h.registrationService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification email sent"})
}

// GoogleLogin godoc
// @Summary Start Google OAuth login
// @Description Redirect to Google's consent screen
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.AuthURL(state))
}

// GoogleCallback godoc
// @Summary Complete Google OAuth login
// @Description Exchange the authorization code, provisioning the account if needed
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Opaque state"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != expected {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "invalid oauth state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		RespondError(c, http.StatusBadRequest, CodeValidationError, "code is required")
		return
	}

	response, outcome, err := h.oauthService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	switch outcome {
	case service.GoogleOutcomeLinked:
		h.auditService.Log(c.Request.Context(), response.UserID, models.ActionGoogleLinked, requestMeta(c))
	case service.GoogleOutcomeCreated:
		h.auditService.Log(c.Request.Context(), response.UserID, models.ActionGoogleCreated, requestMeta(c))
	}
	h.auditService.Log(c.Request.Context(), response.UserID, models.ActionGoogleLogin, requestMeta(c))
	c.JSON(http.StatusOK, response)
}
