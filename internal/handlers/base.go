package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/ECdison6227/flashcraft/internal/gemini"
	"github.com/ECdison6227/flashcraft/internal/quota"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds inbound request bodies. Generously above the source
// text cap so oversize payloads reach the 413 check instead of failing to
// decode.
const maxBodyBytes = 8 << 20

// errBodyTooLarge marks a request body over maxBodyBytes so handlers answer
// 413 instead of misreading the cut-off JSON as malformed.
var errBodyTooLarge = errors.New("request body too large")

type ProxyHandler struct {
	cfg      *config.Config
	selector *quota.Selector
	gemini   *gemini.Client
	log      *logrus.Entry
}

func NewProxyHandler(logger *logrus.Logger, cfg *config.Config, selector *quota.Selector, client *gemini.Client) *ProxyHandler {
	return &ProxyHandler{
		cfg:      cfg,
		selector: selector,
		gemini:   client,
		log:      logger.WithField("component", "proxy_handler"),
	}
}

// decodeJSONBody reads the request body into dst. An empty body decodes as an
// empty object, matching clients that POST without a payload.
func decodeJSONBody(r *http.Request, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return errBodyTooLarge
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	return json.Unmarshal(data, dst)
}
