package crush

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/mailer"
	"github.com/gdugdh24/fabdive-backend/internal/infrastructure/ratelimit"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCrushes struct {
	rows map[uuid.UUID]*domain.Crush
}

func newMemCrushes() *memCrushes { return &memCrushes{rows: map[uuid.UUID]*domain.Crush{}} }

func (m *memCrushes) Create(_ context.Context, c *domain.Crush) error {
	c.ID = uuid.New()
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memCrushes) GetByID(_ context.Context, id uuid.UUID) (*domain.Crush, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrCrushNotFound
	}
	return c, nil
}

func (m *memCrushes) MarkSent(_ context.Context, id uuid.UUID, emailID string) error {
	c, ok := m.rows[id]
	if !ok {
		return domain.ErrCrushNotFound
	}
	c.EmailSent, c.EmailID = true, &emailID
	return nil
}

func (m *memCrushes) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	c, ok := m.rows[id]
	if !ok {
		return domain.ErrCrushNotFound
	}
	c.EmailSent, c.ErrorMessage = false, &reason
	return nil
}

type sentMail struct {
	to, template string
	data         interface{}
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, templateName string, data interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMail{to, templateName, data})
	return "msg-1", nil
}

func newUseCase(t *testing.T, limit int) (*CrushUseCase, *memCrushes, *fakeMailer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := newMemCrushes()
	m := &fakeMailer{}
	uc := NewCrushUseCase(repo, ratelimit.NewDaily(rdb, "crush", limit), m, "https://fabdive.app/", logger.NewNop())
	return uc, repo, m
}

func TestIsValidRecipient(t *testing.T) {
	for _, ok := range []string{"lea@example.fr", "+33 6 12 34 56 78", "(06) 12-34-56-78"} {
		assert.True(t, IsValidRecipient(ok), ok)
	}
	for _, bad := range []string{"", "lea@example", "lea example.fr", "0612", "call me maybe"} {
		assert.False(t, IsValidRecipient(bad), bad)
	}
}

func TestSend_EmailRecipient(t *testing.T) {
	uc, repo, m := newUseCase(t, 5)
	sender := uuid.New()

	resp, err := uc.Send(context.Background(), sender, &SendRequest{Recipient: " lea@example.fr "})
	require.NoError(t, err)
	assert.True(t, resp.EmailSent)
	assert.Equal(t, "msg-1", resp.EmailID)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "lea@example.fr", m.sent[0].to)
	assert.Equal(t, mailer.TemplateCrushNotification, m.sent[0].template)
	assert.Equal(t, map[string]interface{}{"Link": "https://fabdive.app/?crush=1"}, m.sent[0].data)

	row := repo.rows[resp.CrushID]
	require.NotNil(t, row)
	assert.Equal(t, sender, row.SenderUserID)
	assert.True(t, row.EmailSent)
	assert.Equal(t, "msg-1", *row.EmailID)
}

func TestSend_PhoneRecipientIsRecordedOnly(t *testing.T) {
	uc, repo, m := newUseCase(t, 5)

	resp, err := uc.Send(context.Background(), uuid.New(), &SendRequest{Recipient: "+33 6 12 34 56 78"})
	require.NoError(t, err)
	assert.False(t, resp.EmailSent)
	assert.Empty(t, m.sent)
	assert.False(t, repo.rows[resp.CrushID].EmailSent)
}

func TestSend_MailFailureIsRecorded(t *testing.T) {
	uc, repo, m := newUseCase(t, 5)
	m.err = errors.New("sendgrid API error: 401 - unauthorized")

	_, err := uc.Send(context.Background(), uuid.New(), &SendRequest{Recipient: "lea@example.fr"})
	require.Error(t, err)

	require.Len(t, repo.rows, 1)
	for _, row := range repo.rows {
		assert.False(t, row.EmailSent)
		require.NotNil(t, row.ErrorMessage)
		assert.Contains(t, *row.ErrorMessage, "401")
	}
}

func TestSend_InvalidRecipient(t *testing.T) {
	uc, repo, _ := newUseCase(t, 5)

	_, err := uc.Send(context.Background(), uuid.New(), &SendRequest{Recipient: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.rows)
}

func TestSend_DailyLimit(t *testing.T) {
	uc, repo, _ := newUseCase(t, 2)
	sender := uuid.New()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := uc.Send(ctx, sender, &SendRequest{Recipient: "lea@example.fr"})
		require.NoError(t, err)
	}
	_, err := uc.Send(ctx, sender, &SendRequest{Recipient: "lea@example.fr"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Len(t, repo.rows, 2)

	_, err = uc.Send(ctx, uuid.New(), &SendRequest{Recipient: "lea@example.fr"})
	assert.NoError(t, err)
}
