package mailer

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	TemplateMagicLink         = "magic-link"
	TemplateCrushNotification = "crush-notification"
)

var subjects = map[string]string{
	TemplateMagicLink:         "Ton lien de connexion FabDive",
	TemplateCrushNotification: "Quelqu'un pense à toi 💕",
}

//go:embed templates/*.html
var templateFS embed.FS

// Mailer sends a templated email and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, to, templateName string, data interface{}) (string, error)
}

type SendGridMailer struct {
	http      *retryablehttp.Client
	endpoint  string
	apiKey    string
	from      address
	templates map[string]*template.Template
	log       *logger.Logger
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To      []address `json:"to"`
	Subject string    `json:"subject"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Content          []content         `json:"content"`
	Categories       []string          `json:"categories"`
}

func NewSendGridMailer(cfg *config.MailConfig, log *logger.Logger) (*SendGridMailer, error) {
	templates := make(map[string]*template.Template, len(subjects))
	for name := range subjects {
		tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.HTTPClient.Timeout = 15 * time.Second
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = log.With("client", "sendgrid")

	return &SendGridMailer{
		http:      c,
		endpoint:  cfg.SendGridURL,
		apiKey:    cfg.SendGridAPIKey,
		from:      address{Email: cfg.FromAddress, Name: cfg.FromName},
		templates: templates,
		log:       log.With("service", "SendGridMailer"),
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, to, templateName string, data interface{}) (string, error) {
	tmpl, ok := m.templates[templateName]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", templateName)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render %s: %w", templateName, err)
	}

	payload, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{
			To:      []address{{Email: to}},
			Subject: subjects[templateName],
		}},
		From:       m.from,
		Content:    []content{{Type: "text/html", Value: body.String()}},
		Categories: []string{templateName},
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("sendgrid API error: %d - %s", resp.StatusCode, bytes.TrimSpace(text))
	}

	id := resp.Header.Get("X-Message-Id")
	if id == "" {
		id = fmt.Sprintf("sendgrid_%d", time.Now().UnixMilli())
	}
	m.log.Info("email sent", "template", templateName, "message_id", id)
	return id, nil
}
