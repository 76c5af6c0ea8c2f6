package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// Checked in order; the first match wins. An empty message means the error
// text is safe to show.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
	{domain.ErrInvalidStep, http.StatusBadRequest, ""},
	{domain.ErrStepNotReached, http.StatusConflict, ""},
	{domain.ErrEmailTaken, http.StatusConflict, "email already registered"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired link"},
	{domain.ErrSessionNotFound, http.StatusUnauthorized, "session not found"},
	{domain.ErrSessionExpired, http.StatusUnauthorized, "session expired"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
	{domain.ErrPreferencesNotFound, http.StatusNotFound, "preferences not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrLocationNotSet, http.StatusBadRequest, "user location not set"},
	{domain.ErrGeocodeNotFound, http.StatusUnprocessableEntity, "address not found"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "daily limit reached, try again tomorrow"},
	{domain.ErrFetchFailed, http.StatusServiceUnavailable, "records temporarily unavailable"},
}

func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = publicMessage(err)
			}
			c.JSON(m.status, ErrorResponse{Error: msg})
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// publicMessage drops any wrapping prefixes added above the domain error.
func publicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrInvalidInput, domain.ErrInvalidStep, domain.ErrStepNotReached} {
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return userID, ok
}
