package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type tokenSessions map[string]*domain.Session

func (t tokenSessions) GetCurrentSession(_ context.Context, token string) (*domain.Session, error) {
	if s, ok := t[token]; ok {
		return s, nil
	}
	return nil, domain.ErrInvalidToken
}

func newEngine(am *AuthMiddleware, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		id, ok := UserIDFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "authenticated": ok, "has_session": SessionFrom(c) != nil})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	am := NewAuthMiddleware(tokenSessions{
		"good": {ID: uuid.New(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)},
	}, logger.NewNop())
	r := newEngine(am, am.RequireAuth())

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer", "Bearer good", "", http.StatusOK},
		{"lowercase scheme", "bearer good", "", http.StatusOK},
		{"query token", "", "?access_token=good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			}
		})
	}
}

func TestOptionalAuth_PassesWithoutSession(t *testing.T) {
	am := NewAuthMiddleware(tokenSessions{}, logger.NewNop())
	r := newEngine(am, am.OptionalAuth())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"00000000-0000-0000-0000-000000000000","authenticated":false,"has_session":false}`, w.Body.String())
}
