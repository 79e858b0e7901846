package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ECdison6227/flashcraft/internal/deck"
	"github.com/ECdison6227/flashcraft/internal/gemini"
	"github.com/sirupsen/logrus"
)

type deckBody struct {
	Requirements string `json:"requirements"`
	SourceText   string `json:"sourceText"`
	TotalCards   int    `json:"totalCards"`
}

// HandleGenerateDeck turns pasted source material into a structured flashcard
// deck. The body is validated before any quota is consumed, so an oversize or
// empty source never wastes a unit.
func (h *ProxyHandler) HandleGenerateDeck(w http.ResponseWriter, r *http.Request) {
	if !h.gemini.HasKey() {
		writeError(w, http.StatusInternalServerError, "Server is missing the GEMINI_API_KEY configuration")
		return
	}

	var body deckBody
	if err := decodeJSONBody(r, &body); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sourceText := strings.TrimSpace(body.SourceText)
	if sourceText == "" {
		writeError(w, http.StatusBadRequest, "sourceText is required")
		return
	}
	if utf8.RuneCountInString(sourceText) > deck.MaxSourceChars {
		writeError(w, http.StatusRequestEntityTooLarge, "sourceText too large")
		return
	}
	total := deck.ClampTotal(body.TotalCards)

	grant, err := h.selector.Pick(r.Context(), h.cfg.FlashcraftModels)
	if err != nil {
		h.log.WithError(err).Error("Quota check failed")
		writeError(w, http.StatusInternalServerError, "Quota check failed")
		return
	}
	setRateLimitHeaders(w, grant)
	if !grant.OK {
		msg := "Rate limit exceeded for all allowed models."
		if grant.SiteLimited {
			msg = "Site quota exceeded. Try again later."
		}
		writeRateLimited(w, grant, msg)
		return
	}

	payload := deck.Prompt(strings.TrimSpace(body.Requirements), sourceText, total)
	resp, err := h.gemini.GenerateContent(r.Context(), grant.Model, payload)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream network error")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream read error")
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.log.WithFields(logrus.Fields{
			"model":  grant.Model,
			"status": resp.StatusCode,
		}).Warn("Upstream rejected deck generation")
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Upstream error: status %d", resp.StatusCode))
		return
	}

	text, err := gemini.ExtractText(data)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream returned invalid JSON")
		return
	}
	parsed, ok := deck.Parse(text)
	if !ok {
		writeError(w, http.StatusBadGateway, "Model output is not a valid deck JSON")
		return
	}

	writeJSON(w, http.StatusOK, parsed)
}
