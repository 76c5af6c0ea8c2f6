package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileReader interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*profile.Summary, error)
	Portrait(ctx context.Context, userID uuid.UUID) (string, error)
}

type ProfileHandler struct {
	profiles ProfileReader
}

func NewProfileHandler(profiles ProfileReader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's profile and preferences
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} profile.Summary
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.profiles.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPortrait handles GET /profile/me/portrait
// @Summary Completion-screen portrait
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /profile/me/portrait [get]
func (h *ProfileHandler) GetPortrait(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	text, err := h.profiles.Portrait(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portrait": text})
}
