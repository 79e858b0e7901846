package deck

import (
	"testing"

	"github.com/ECdison6227/flashcraft/internal/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampTotal(t *testing.T) {
	assert.Equal(t, DefaultCards, ClampTotal(0))
	assert.Equal(t, MinCards, ClampTotal(3))
	assert.Equal(t, MinCards, ClampTotal(-5))
	assert.Equal(t, MaxCards, ClampTotal(1000))
	assert.Equal(t, 42, ClampTotal(42))
	assert.Equal(t, MinCards, ClampTotal(MinCards))
	assert.Equal(t, MaxCards, ClampTotal(MaxCards))
}

func TestPromptLayout(t *testing.T) {
	req := Prompt("focus on definitions", "the mitochondria is the powerhouse", 25)

	contents, ok := req.Contents.([]gemini.Content)
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 1)

	user := contents[0].Parts[0].Text
	assert.Contains(t, user, "[TOTAL]\n25\n")
	assert.Contains(t, user, "[USER_REQUIREMENTS]\nfocus on definitions\n")
	assert.Contains(t, user, "[SOURCE]\nthe mitochondria is the powerhouse\n")

	sys, ok := req.SystemInstruction.(gemini.Instruction)
	require.True(t, ok)
	require.Len(t, sys.Parts, 1)
	assert.Contains(t, sys.Parts[0].Text, "FlashCraft Deck Generator")
	assert.Contains(t, sys.Parts[0].Text, `"cards": [{ "front": string, "back": string }]`)
}

func TestPromptDefaultsRequirements(t *testing.T) {
	req := Prompt("", "source", 10)
	contents := req.Contents.([]gemini.Content)
	assert.Contains(t, contents[0].Parts[0].Text, "[USER_REQUIREMENTS]\nN/A\n")
}
