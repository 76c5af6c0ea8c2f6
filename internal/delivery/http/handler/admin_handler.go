package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StatsReader interface {
	Collect(ctx context.Context, userID uuid.UUID) (*domain.Stats, error)
}

type AdminHandler struct {
	stats StatsReader
}

func NewAdminHandler(stats StatsReader) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := h.stats.Collect(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
