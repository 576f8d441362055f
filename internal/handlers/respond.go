// Package handlers contains HTTP request handlers for the time-tracker service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Stable error codes returned in the error envelope. Clients branch on
// these, not on messages.
const (
	CodeAlreadyClockedIn      = "already_clocked_in"
	CodeNotClockedIn          = "not_clocked_in"
	CodeLocationNotAuthorized = "location_not_authorized"
	CodeUnauthorized          = "unauthorized"
	CodeValidationError       = "validation_error"
	CodeOAuthExchangeFailed   = "oauth_exchange_failed"
	CodeNotFound              = "not_found"
	CodeNotImplemented        = "not_implemented"
	CodeInternalError         = "internal_error"
)

// ErrorBody is the inner payload of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error response uses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RespondError writes a structured error with the given status and code.
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// RespondServiceError maps a service-layer error onto the HTTP surface.
// Unrecognized errors become an opaque 500; the detail goes to the log,
// not the client.
func RespondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyClockedIn):
		RespondError(c, http.StatusConflict, CodeAlreadyClockedIn, "you are already clocked in")
	case errors.Is(err, service.ErrNotClockedIn):
		RespondError(c, http.StatusBadRequest, CodeNotClockedIn, "you are not clocked in")
	case errors.Is(err, service.ErrLocationNotAuthorized):
		RespondError(c, http.StatusForbidden, CodeLocationNotAuthorized, "location is not within an authorized zone")
	case errors.Is(err, service.ErrUnauthorized):
		RespondError(c, http.StatusForbidden, CodeUnauthorized, "insufficient permissions")
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrAccountPending):
		RespondError(c, http.StatusForbidden, CodeUnauthorized, "account is pending approval")
	case errors.Is(err, service.ErrNotFound):
		RespondError(c, http.StatusNotFound, CodeNotFound, "record not found")
	case errors.Is(err, service.ErrOAuthExchangeFailed):
		RespondError(c, http.StatusBadGateway, CodeOAuthExchangeFailed, "could not verify identity with provider")
	case service.IsValidation(err):
		RespondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
	default:
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled service error")
		RespondError(c, http.StatusInternalServerError, CodeInternalError, "internal server error")
	}
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
