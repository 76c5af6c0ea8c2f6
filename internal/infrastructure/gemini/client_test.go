package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePortrait_NilClientFallsBack(t *testing.T) {
	var c *GeminiClient
	got := c.GeneratePortrait(context.Background(), PortraitInput{
		DisplayName:       "Léa",
		PersonalityTraits: []string{"explorateur", "sage"},
	})
	assert.Equal(t, "Léa, ton âme de explorateur et sage attire les personnes qui te ressemblent. Ton profil est prêt, les bonnes rencontres commencent maintenant.", got)
}

func TestFallbackPortrait_NoTraits(t *testing.T) {
	assert.Equal(t, "Toi, ton profil est prêt ! Les bonnes rencontres commencent maintenant.", FallbackPortrait(PortraitInput{}))
}
