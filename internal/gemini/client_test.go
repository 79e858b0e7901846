package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL, key string) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(logger, &config.Config{GeminiBaseURL: baseURL, GeminiAPIKey: key})
}

func TestGenerateContentRequestShape(t *testing.T) {
	var gotPath, gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL, "secret-key")
	resp, err := client.GenerateContent(context.Background(), "gemini-2.5-flash", GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.JSONEq(t, `{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`, gotBody)
}

func TestGenerateContentOmitsSystemInstructionWhenAbsent(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := testClient(t, server.URL, "k")
	resp, err := client.GenerateContent(context.Background(), "m", GenerateRequest{Contents: []Content{}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotContains(t, gotBody, "systemInstruction")
}

func TestHasKey(t *testing.T) {
	assert.True(t, testClient(t, "http://localhost", "k").HasKey())
	assert.False(t, testClient(t, "http://localhost", "").HasKey())
}

func TestExtractText(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"hello"},{"text":"ignored"}]}}]}`
	text, err := ExtractText([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractTextEmptyCandidates(t *testing.T) {
	text, err := ExtractText([]byte(`{"candidates":[]}`))
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = ExtractText([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTextInvalidJSON(t *testing.T) {
	_, err := ExtractText([]byte("nope"))
	assert.Error(t, err)
}
