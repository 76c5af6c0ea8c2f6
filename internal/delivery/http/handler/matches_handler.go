package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/usecase/matches"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MatchFinder interface {
	Find(ctx context.Context, userID uuid.UUID) (*matches.FindResponse, error)
}

type MatchesHandler struct {
	matches MatchFinder
}

func NewMatchesHandler(finder MatchFinder) *MatchesHandler {
	return &MatchesHandler{matches: finder}
}

// Find handles GET /matches
// @Summary Nearby profiles matching my preferences
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {object} matches.FindResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchesHandler) Find(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.matches.Find(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
