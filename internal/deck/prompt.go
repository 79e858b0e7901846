package deck

import (
	"fmt"

	"github.com/ECdison6227/flashcraft/internal/gemini"
)

const (
	MinCards     = 10
	MaxCards     = 200
	DefaultCards = 60

	// MaxSourceChars bounds the pasted source text, counted in runes.
	MaxSourceChars = 200000
)

const systemText = "You are FlashCraft Deck Generator.\n" +
	"Return ONLY a valid JSON object with this exact schema:\n" +
	"{ \"title\": string, \"desc\": string, \"cards\": [{ \"front\": string, \"back\": string }] }\n" +
	"Rules:\n" +
	"1) No Markdown, no code fences, no explanations.\n" +
	"2) cards length should be close to TOTAL.\n" +
	"3) front/back must be non-empty; avoid duplicates.\n" +
	"4) Keep content faithful to the source; do not hallucinate facts.\n" +
	"5) Use Markdown + LaTeX where helpful.\n"

// ClampTotal normalizes the requested card count: absent (zero) becomes the
// default, everything else is clamped to [MinCards, MaxCards].
func ClampTotal(total int) int {
	if total == 0 {
		return DefaultCards
	}
	if total < MinCards {
		return MinCards
	}
	if total > MaxCards {
		return MaxCards
	}
	return total
}

// Prompt builds the upstream request for deck generation: the fixed system
// instruction plus one user message embedding the target count, free-text
// requirements and the source material.
func Prompt(requirements, sourceText string, total int) gemini.GenerateRequest {
	if requirements == "" {
		requirements = "N/A"
	}
	userText := fmt.Sprintf("[TOTAL]\n%d\n\n[USER_REQUIREMENTS]\n%s\n\n[SOURCE]\n%s\n",
		total, requirements, sourceText)

	return gemini.GenerateRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: userText}}},
		},
		SystemInstruction: gemini.Instruction{
			Parts: []gemini.Part{{Text: systemText}},
		},
	}
}
