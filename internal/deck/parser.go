package deck

import (
	"encoding/json"
	"strings"
)

// Deck is the structured payload extracted from model output. Cards are kept
// as raw JSON and relayed to the client unchanged.
type Deck struct {
	Title string            `json:"title"`
	Desc  string            `json:"desc"`
	Cards []json.RawMessage `json:"cards"`
}

// Parse extracts the first balanced top-level JSON object from free-form
// model text and decodes it as a deck. The object must carry a list-valued
// cards field.
func Parse(text string) (*Deck, bool) {
	raw, ok := ExtractObject(text)
	if !ok {
		return nil, false
	}
	var d Deck
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false
	}
	if d.Cards == nil {
		return nil, false
	}
	return &d, true
}

// ExtractObject locates the first balanced {...} block using a depth-counting
// scan from the first opening brace. A naive scan to the last closing brace
// would break on trailing noise; braces inside string literals make the
// candidate chunk fail JSON validation, which is treated as no object.
func ExtractObject(text string) (json.RawMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	// Fast path: the whole reply is the object.
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") && json.Valid([]byte(text)) {
		return json.RawMessage(text), true
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				chunk := []byte(text[start : i+1])
				if !json.Valid(chunk) {
					return nil, false
				}
				return json.RawMessage(chunk), true
			}
		}
	}
	return nil, false
}
