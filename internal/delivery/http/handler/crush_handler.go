package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/usecase/crush"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CrushSender interface {
	Send(ctx context.Context, senderID uuid.UUID, req *crush.SendRequest) (*crush.SendResponse, error)
}

type CrushHandler struct {
	crushes CrushSender
}

func NewCrushHandler(crushes CrushSender) *CrushHandler {
	return &CrushHandler{crushes: crushes}
}

// Send handles POST /crush
// @Summary Send an anonymous crush
// @Tags crush
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body crush.SendRequest true "Recipient email or phone"
// @Success 201 {object} crush.SendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /crush [post]
func (h *CrushHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req crush.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.crushes.Send(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
