package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OnboardingService interface {
	SaveStep(ctx context.Context, userID uuid.UUID, step domain.Step, ans *profile.StepAnswer) error
	UploadPhoto(ctx context.Context, userID uuid.UUID, size int64, r io.Reader) (string, error)
}

type OnboardingHandler struct {
	onboarding OnboardingService
	navigator  NavigationResolver
}

func NewOnboardingHandler(svc OnboardingService, navigator NavigationResolver) *OnboardingHandler {
	return &OnboardingHandler{onboarding: svc, navigator: navigator}
}

type stepURI struct {
	Step string `uri:"step" binding:"required,onboarding_step"`
}

// StepSavedResponse carries the navigation that follows a saved answer
type StepSavedResponse struct {
	PhotoURL   string                `json:"photo_url,omitempty"`
	Navigation onboarding.Navigation `json:"navigation"`
}

// Next handles GET /onboarding/next
// @Summary Where the client should go on cold start
// @Tags onboarding
// @Produce json
// @Success 200 {object} onboarding.Navigation
// @Router /onboarding/next [get]
func (h *OnboardingHandler) Next(c *gin.Context) {
	c.JSON(http.StatusOK, h.navigator.Resolve(c.Request.Context(), onboarding.EntryColdStart, middleware.SessionFrom(c)))
}

// SaveStep handles PUT /onboarding/steps/:step
// @Summary Save the answers of one onboarding screen
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param step path string true "Step name, e.g. gender"
// @Param request body profile.StepAnswer false "Step answers"
// @Success 200 {object} StepSavedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /onboarding/steps/{step} [put]
func (h *OnboardingHandler) SaveStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var uri stepURI
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, "unknown onboarding step")
		return
	}
	step, err := domain.ParseStep(uri.Step)
	if err != nil {
		respondError(c, err)
		return
	}

	var ans profile.StepAnswer
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&ans); err != nil && err != io.EOF {
			badRequest(c, "invalid request body")
			return
		}
	}

	if err := h.onboarding.SaveStep(c.Request.Context(), userID, step, &ans); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StepSavedResponse{
		Navigation: h.navigator.Resolve(c.Request.Context(), onboarding.EntryStepSaved, middleware.SessionFrom(c)),
	})
}

// UploadPhoto handles POST /onboarding/photo (multipart field "photo")
func (h *OnboardingHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		badRequest(c, "photo file is required")
		return
	}
	if file.Size > profile.MaxPhotoBytes {
		badRequest(c, "photo must be at most 10 MB")
		return
	}
	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	url, err := h.onboarding.UploadPhoto(c.Request.Context(), userID, file.Size, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StepSavedResponse{
		PhotoURL:   url,
		Navigation: h.navigator.Resolve(c.Request.Context(), onboarding.EntryStepSaved, middleware.SessionFrom(c)),
	})
}
