package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/mailer"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// TokenStore issues and redeems single-use magic-link tokens.
type TokenStore interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Consume(ctx context.Context, token string) (uuid.UUID, error)
	TTL() time.Duration
}

type EventBus interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan domain.SessionEvent, error)
}

type Options struct {
	JWTSecret  string
	SessionTTL time.Duration
	AppBaseURL string
}

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      TokenStore
	mailer      mailer.Mailer
	events      EventBus
	opts        Options
	log         *logger.Logger
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens TokenStore,
	m mailer.Mailer,
	events EventBus,
	opts Options,
	log *logger.Logger,
) *AuthUseCase {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		mailer:      m,
		events:      events,
		opts:        opts,
		log:         log.With("usecase", "auth"),
		now:         time.Now,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      *domain.User    `json:"user"`
	IsNewUser bool            `json:"is_new_user"`
	Session   *domain.Session `json:"-"`
}

type sessionClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// RequestMagicLink creates the user on first use and emails a sign-in link.
func (uc *AuthUseCase) RequestMagicLink(ctx context.Context, email, displayName string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = &domain.User{Email: email}
		if name := strings.TrimSpace(displayName); name != "" {
			user.DisplayName = &name
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := uc.tokens.Issue(ctx, user.ID)
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"DisplayName":      derefString(user.DisplayName),
		"Link":             uc.callbackURL(token),
		"ExpiresInMinutes": int(uc.tokens.TTL().Minutes()),
	}
	if _, err := uc.mailer.Send(ctx, email, mailer.TemplateMagicLink, data); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}
	uc.log.Info("magic link sent", "user_id", user.ID)
	return nil
}

// ConsumeMagicLink redeems a magic-link token and opens a session.
func (uc *AuthUseCase) ConsumeMagicLink(ctx context.Context, token, deviceInfo, ipAddress string) (*AuthResponse, error) {
	userID, err := uc.tokens.Consume(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return uc.openSession(ctx, user, false, deviceInfo, ipAddress)
}

// SignUp registers a password account. A magic-link account without a
// password gets the password attached.
func (uc *AuthUseCase) SignUp(ctx context.Context, email, password, displayName, deviceInfo, ipAddress string) (*AuthResponse, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = &domain.User{Email: email, PasswordHash: &hashStr}
		if name := strings.TrimSpace(displayName); name != "" {
			user.DisplayName = &name
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return uc.openSession(ctx, user, true, deviceInfo, ipAddress)
	case err != nil:
		return nil, fmt.Errorf("failed to get user: %w", err)
	case user.PasswordHash != nil:
		return nil, domain.ErrEmailTaken
	default:
		if err := uc.userRepo.SetPasswordHash(ctx, user.ID, hashStr); err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}
		user.PasswordHash = &hashStr
		return uc.openSession(ctx, user, false, deviceInfo, ipAddress)
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.openSession(ctx, user, false, deviceInfo, ipAddress)
}

// GetCurrentSession verifies the token signature and the stored session.
func (uc *AuthUseCase) GetCurrentSession(ctx context.Context, tokenString string) (*domain.Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.opts.JWTSecret), nil
	}, jwt.WithTimeFunc(uc.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	session, err := uc.sessionRepo.GetByTokenHash(ctx, hashToken(tokenString))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID.String() != claims.UserID {
		return nil, domain.ErrInvalidToken
	}
	if uc.now().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Logout deletes the session and announces the sign-out.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	session, err := uc.sessionRepo.DeleteByTokenHash(ctx, hashToken(tokenString))
	if err != nil {
		return err
	}
	uc.publish(ctx, domain.SessionSignedOut, session)
	return nil
}

// SessionEvents streams the sign-in/sign-out events of userID.
func (uc *AuthUseCase) SessionEvents(ctx context.Context, userID uuid.UUID) (<-chan domain.SessionEvent, error) {
	return uc.events.Subscribe(ctx, userID)
}

func (uc *AuthUseCase) openSession(ctx context.Context, user *domain.User, isNew bool, deviceInfo, ipAddress string) (*AuthResponse, error) {
	now := uc.now()
	expiresAt := now.Add(uc.opts.SessionTTL)
	sessionID := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:    user.ID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	tokenString, err := token.SignedString([]byte(uc.opts.JWTSecret))
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:         sessionID,
		UserID:     user.ID,
		TokenHash:  hashToken(tokenString),
		DeviceInfo: optional(deviceInfo),
		IPAddress:  optional(ipAddress),
		ExpiresAt:  expiresAt,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	uc.publish(ctx, domain.SessionSignedIn, session)

	return &AuthResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      user,
		IsNewUser: isNew,
		Session:   session,
	}, nil
}

func (uc *AuthUseCase) publish(ctx context.Context, typ domain.SessionEventType, session *domain.Session) {
	if uc.events == nil {
		return
	}
	err := uc.events.Publish(ctx, domain.SessionEvent{
		Type:      typ,
		UserID:    session.UserID,
		SessionID: session.ID,
		At:        uc.now(),
	})
	if err != nil {
		uc.log.Warn("failed to publish session event", "type", typ, "user_id", session.UserID, "error", err)
	}
}

func (uc *AuthUseCase) callbackURL(token string) string {
	return strings.TrimRight(uc.opts.AppBaseURL, "/") + "/auth/callback?token=" + url.QueryEscape(token)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return email, nil
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
