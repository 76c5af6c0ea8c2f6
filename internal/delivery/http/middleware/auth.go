package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextSession = "session"
	ContextUserID  = "user_id"
	ContextToken   = "token"
)

type SessionValidator interface {
	GetCurrentSession(ctx context.Context, token string) (*domain.Session, error)
}

type AuthMiddleware struct {
	sessions SessionValidator
	log      *logger.Logger
}

func NewAuthMiddleware(sessions SessionValidator, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, log: log.With("middleware", "AuthMiddleware")}
}

// RequireAuth rejects requests without a live session.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}
		session, err := am.sessions.GetCurrentSession(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("session rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		setSession(c, session, token)
		c.Next()
	}
}

// OptionalAuth attaches the session when the token is valid and lets the
// request through either way.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			session, err := am.sessions.GetCurrentSession(c.Request.Context(), token)
			if err == nil {
				setSession(c, session, token)
			}
		}
		c.Next()
	}
}

func setSession(c *gin.Context, session *domain.Session, token string) {
	c.Set(ContextSession, session)
	c.Set(ContextUserID, session.UserID)
	c.Set(ContextToken, token)
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the token query parameter used by EventSource clients.
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return c.Query("access_token")
}

// SessionFrom returns the session attached by the auth middleware, or nil.
func SessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	session, _ := v.(*domain.Session)
	return session
}

func UserIDFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
