package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObjectFromNoisyText(t *testing.T) {
	text := `prefix noise {"title":"T","cards":[{"front":"a","back":"b"}]} trailing`

	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"T","cards":[{"front":"a","back":"b"}]}`, string(raw))
}

func TestExtractObjectWholeString(t *testing.T) {
	raw, ok := ExtractObject(`  {"title":"T","desc":"","cards":[]}  `)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"T","desc":"","cards":[]}`, string(raw))
}

func TestExtractObjectNestedBraces(t *testing.T) {
	text := `note {"a":{"b":{"c":1}},"cards":[]} end`
	raw, ok := ExtractObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":{"b":{"c":1}},"cards":[]}`, string(raw))
}

func TestExtractObjectUnbalanced(t *testing.T) {
	_, ok := ExtractObject(`junk {"title":"T","cards":[ junk`)
	assert.False(t, ok)
}

func TestExtractObjectNoBraces(t *testing.T) {
	_, ok := ExtractObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractObject("")
	assert.False(t, ok)
}

func TestExtractObjectInvalidChunk(t *testing.T) {
	// Balanced braces but not valid JSON.
	_, ok := ExtractObject(`x {not json} y`)
	assert.False(t, ok)
}

func TestParseDeck(t *testing.T) {
	d, ok := Parse(`Sure! {"title":"Biology","desc":"Cells","cards":[{"front":"q","back":"a"},{"front":"q2","back":"a2"}]}`)
	require.True(t, ok)
	assert.Equal(t, "Biology", d.Title)
	assert.Equal(t, "Cells", d.Desc)
	require.Len(t, d.Cards, 2)

	var card struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	require.NoError(t, json.Unmarshal(d.Cards[0], &card))
	assert.Equal(t, "q", card.Front)
	assert.Equal(t, "a", card.Back)
}

func TestParseRejectsMissingCards(t *testing.T) {
	_, ok := Parse(`{"title":"T","desc":"D"}`)
	assert.False(t, ok)
}

func TestParseRejectsNonListCards(t *testing.T) {
	_, ok := Parse(`{"title":"T","cards":"nope"}`)
	assert.False(t, ok)

	_, ok = Parse(`{"title":"T","cards":null}`)
	assert.False(t, ok)
}

func TestParseAllowsEmptyCards(t *testing.T) {
	d, ok := Parse(`{"title":"T","cards":[]}`)
	require.True(t, ok)
	assert.Empty(t, d.Cards)
}

func TestDeckMarshalShape(t *testing.T) {
	d, ok := Parse(`{"cards":[{"front":"f","back":"b"}]}`)
	require.True(t, ok)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"","desc":"","cards":[{"front":"f","back":"b"}]}`, string(out))
}
