package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// PortraitInput is what the completion screen knows about a user.
type PortraitInput struct {
	DisplayName          string
	PersonalityTraits    []string
	PersonalDefinition   []string
	AppearanceImportance string
	Objectives           []string
}

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *logger.Logger
}

func NewGeminiClient(apiKey string, log *logger.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
		log:    log.With("client", "gemini"),
	}, nil
}

func (c *GeminiClient) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// GeneratePortrait writes a short dating portrait. A nil client, an API
// failure or an empty answer all fall back to a template portrait.
func (c *GeminiClient) GeneratePortrait(ctx context.Context, in PortraitInput) string {
	if c == nil || c.model == nil {
		return FallbackPortrait(in)
	}

	prompt := fmt.Sprintf(`
		Write a warm dating-app portrait of a user.
		Name: %s
		Personality archetypes: %s
		Self description: %s
		Importance of appearance: %s
		Looking for: %s

		Task: 2 short sentences in the second person, encouraging and specific.
		Language: French.
		Output: Just the portrait text.
	`, in.DisplayName, strings.Join(in.PersonalityTraits, ", "), strings.Join(in.PersonalDefinition, ", "),
		in.AppearanceImportance, strings.Join(in.Objectives, ", "))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Warn("gemini unavailable, using fallback portrait", "error", err)
		return FallbackPortrait(in)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return FallbackPortrait(in)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return FallbackPortrait(in)
	}
	return text
}

func FallbackPortrait(in PortraitInput) string {
	name := in.DisplayName
	if name == "" {
		name = "Toi"
	}
	if len(in.PersonalityTraits) == 0 {
		return fmt.Sprintf("%s, ton profil est prêt ! Les bonnes rencontres commencent maintenant.", name)
	}
	return fmt.Sprintf("%s, ton âme de %s attire les personnes qui te ressemblent. Ton profil est prêt, les bonnes rencontres commencent maintenant.",
		name, strings.Join(in.PersonalityTraits, " et "))
}
