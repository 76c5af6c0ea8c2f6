package crush

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/mailer"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

type CrushUseCase struct {
	crushRepo  repository.CrushRepository
	limiter    RateLimiter
	mailer     mailer.Mailer
	appBaseURL string
	log        *logger.Logger
}

func NewCrushUseCase(
	crushRepo repository.CrushRepository,
	limiter RateLimiter,
	m mailer.Mailer,
	appBaseURL string,
	log *logger.Logger,
) *CrushUseCase {
	return &CrushUseCase{
		crushRepo:  crushRepo,
		limiter:    limiter,
		mailer:     m,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		log:        log.With("usecase", "crush"),
	}
}

// SendRequest represents a crush invitation
type SendRequest struct {
	Recipient string `json:"recipient" binding:"required,max=254"`
}

// SendResponse represents the outcome of a crush invitation
type SendResponse struct {
	CrushID   uuid.UUID `json:"crush_id"`
	EmailSent bool      `json:"email_sent"`
	EmailID   string    `json:"email_id,omitempty"`
}

// IsValidRecipient accepts an email address or a phone number of at least
// ten digits, spaces, dashes or parentheses.
func IsValidRecipient(recipient string) bool {
	return emailPattern.MatchString(recipient) || phonePattern.MatchString(recipient)
}

// Send records a crush and emails the recipient. Phone recipients are stored
// but not contacted. A failed email is recorded on the row and returned.
func (uc *CrushUseCase) Send(ctx context.Context, senderID uuid.UUID, req *SendRequest) (*SendResponse, error) {
	recipient := strings.TrimSpace(req.Recipient)
	if !IsValidRecipient(recipient) {
		return nil, fmt.Errorf("%w: recipient must be an email address or a phone number", domain.ErrInvalidInput)
	}
	if err := uc.limiter.Allow(ctx, senderID.String()); err != nil {
		return nil, err
	}

	crush := &domain.Crush{
		SenderUserID:   senderID,
		RecipientEmail: recipient,
	}
	if err := uc.crushRepo.Create(ctx, crush); err != nil {
		return nil, fmt.Errorf("failed to save crush: %w", err)
	}
	resp := &SendResponse{CrushID: crush.ID}

	if !emailPattern.MatchString(recipient) {
		uc.log.Info("crush recorded for phone recipient", "crush_id", crush.ID, "sender_id", senderID)
		return resp, nil
	}

	emailID, err := uc.mailer.Send(ctx, recipient, mailer.TemplateCrushNotification, map[string]interface{}{
		"Link": uc.appBaseURL + "/?crush=1",
	})
	if err != nil {
		if markErr := uc.crushRepo.MarkFailed(ctx, crush.ID, err.Error()); markErr != nil {
			uc.log.Error("failed to record crush email failure", "crush_id", crush.ID, "error", markErr)
		}
		uc.log.Warn("crush email failed", "crush_id", crush.ID, "error", err)
		return nil, fmt.Errorf("failed to send crush email: %w", err)
	}

	if err := uc.crushRepo.MarkSent(ctx, crush.ID, emailID); err != nil {
		uc.log.Error("failed to mark crush as sent", "crush_id", crush.ID, "error", err)
	}
	resp.EmailSent = true
	resp.EmailID = emailID
	uc.log.Info("crush email sent", "crush_id", crush.ID, "email_id", emailID)
	return resp, nil
}
