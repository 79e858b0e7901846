package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ECdison6227/flashcraft/internal/gemini"
	"github.com/ECdison6227/flashcraft/internal/quota"
)

type generateBody struct {
	Model             string          `json:"model"`
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction json.RawMessage `json:"systemInstruction"`
}

// HandleGenerate is the generic completion route: the client supplies the
// conversation, the server supplies the credential and picks (or validates)
// the model under the shared quota.
func (h *ProxyHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !h.gemini.HasKey() {
		writeError(w, http.StatusInternalServerError, "Server is missing the GEMINI_API_KEY configuration")
		return
	}

	var body generateBody
	if err := decodeJSONBody(r, &body); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var grant quota.Grant
	var err error
	deniedMsg := "Rate limit exceeded for all allowed models."

	if model := strings.TrimSpace(body.Model); model != "" {
		if !h.cfg.ModelAllowed(model) {
			writeError(w, http.StatusBadRequest, "Model not allowed: "+model)
			return
		}
		deniedMsg = "Rate limit exceeded for requested model."
		grant, err = h.selector.Consume(r.Context(), model)
	} else {
		grant, err = h.selector.Pick(r.Context(), h.cfg.MarkcraftModels)
	}
	if err != nil {
		h.log.WithError(err).Error("Quota check failed")
		writeError(w, http.StatusInternalServerError, "Quota check failed")
		return
	}

	setRateLimitHeaders(w, grant)
	if !grant.OK {
		if grant.SiteLimited {
			deniedMsg = "Site quota exceeded. Try again later."
		}
		writeRateLimited(w, grant, deniedMsg)
		return
	}

	payload := gemini.GenerateRequest{Contents: body.Contents}
	if body.Contents == nil || string(body.Contents) == "null" {
		payload.Contents = json.RawMessage("[]")
	}
	if len(body.SystemInstruction) > 0 && string(body.SystemInstruction) != "null" {
		payload.SystemInstruction = body.SystemInstruction
	}

	resp, err := h.gemini.GenerateContent(r.Context(), grant.Model, payload)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Upstream network error")
		return
	}
	defer resp.Body.Close()

	forwardResponse(w, resp)
}
