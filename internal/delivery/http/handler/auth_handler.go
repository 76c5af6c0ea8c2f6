package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/auth"
	"github.com/gdugdh24/fabdive-backend/internal/usecase/onboarding"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthService interface {
	RequestMagicLink(ctx context.Context, email, displayName string) error
	ConsumeMagicLink(ctx context.Context, token, deviceInfo, ipAddress string) (*auth.AuthResponse, error)
	SignUp(ctx context.Context, email, password, displayName, deviceInfo, ipAddress string) (*auth.AuthResponse, error)
	Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*auth.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	SessionEvents(ctx context.Context, userID uuid.UUID) (<-chan domain.SessionEvent, error)
}

// NavigationResolver turns a session into the next client route.
type NavigationResolver interface {
	Resolve(ctx context.Context, entry onboarding.EntryPoint, session *domain.Session) onboarding.Navigation
}

type AuthHandler struct {
	auth      AuthService
	navigator NavigationResolver
	keepAlive time.Duration
	log       *logger.Logger
}

func NewAuthHandler(authService AuthService, navigator NavigationResolver, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      authService,
		navigator: navigator,
		keepAlive: 25 * time.Second,
		log:       log.With("handler", "auth"),
	}
}

// MagicLinkRequest represents a passwordless sign-in request
type MagicLinkRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response structure
type AuthResponse struct {
	Token      string                `json:"token"`
	ExpiresAt  int64                 `json:"expires_at"`
	User       *domain.User          `json:"user"`
	IsNewUser  bool                  `json:"is_new_user"`
	Navigation onboarding.Navigation `json:"navigation"`
}

// RequestMagicLink handles POST /auth/magic-link
// @Summary Request a sign-in link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body MagicLinkRequest true "Email and display name"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.auth.RequestMagicLink(c.Request.Context(), req.Email, req.DisplayName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "sign-in link sent"})
}

// Callback handles GET /auth/callback?token=
// @Summary Consume a sign-in link
// @Tags auth
// @Produce json
// @Param token query string true "Magic-link token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		badRequest(c, "missing token")
		return
	}
	result, err := h.auth.ConsumeMagicLink(c.Request.Context(), token, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, onboarding.EntryAuthCallback, result)
}

// SignUp handles POST /auth/signup
// @Summary Password sign-up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Credentials"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName,
		c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusCreated, onboarding.EntryLogin, result)
}

// Login handles POST /auth/login
// @Summary Password login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, onboarding.EntryLogin, result)
}

func (h *AuthHandler) respondSession(c *gin.Context, status int, entry onboarding.EntryPoint, result *auth.AuthResponse) {
	c.JSON(status, AuthResponse{
		Token:      result.Token,
		ExpiresAt:  result.ExpiresAt.Unix(),
		User:       result.User,
		IsNewUser:  result.IsNewUser,
		Navigation: h.navigator.Resolve(c.Request.Context(), entry, result.Session),
	})
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Logout user and invalidate session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out successfully"})
}

// Me returns current session info
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

// Events streams the user's session changes as server-sent events. The
// stream ends after the current session is signed out.
func (h *AuthHandler) Events(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	events, err := h.auth.SessionEvents(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for open := true; open; {
		select {
		case ev, ok := <-events:
			if !ok {
				open = false
				break
			}
			c.SSEvent("session", ev)
			open = !(ev.Type == domain.SessionSignedOut && ev.SessionID == session.ID)
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().Unix()})
		case <-ctx.Done():
			open = false
		}
		c.Writer.Flush()
	}
	h.log.Debug("session event stream closed", "user_id", session.UserID)
}
