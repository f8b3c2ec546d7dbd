package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/phrazzld/account-api/internal/config"
)

// NewErrorResponseFilter replaces the body of failed password grants, which
// carry error "invalid_grant" and no hint, with the configured
// invalid-credentials message so clients cannot tell which credential was wrong.
func NewErrorResponseFilter(cfg config.InvalidCredentialsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := newBufferedResponse()
			next.ServeHTTP(buf, r)

			if buf.status == http.StatusBadRequest {
				if body, ok := rewriteInvalidGrant(buf.body.Bytes(), cfg); ok {
					buf.body.Reset()
					buf.body.Write(body)
					buf.Header().Set("Content-Length", strconv.Itoa(len(body)))
				}
			}
			buf.flush(w)
		})
	}
}

func rewriteInvalidGrant(raw []byte, cfg config.InvalidCredentialsConfig) ([]byte, bool) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, false
	}
	if code, _ := body["error"].(string); code != "invalid_grant" {
		return nil, false
	}
	if hint, _ := body["hint"].(string); hint != "" {
		return nil, false
	}

	body["error"] = cfg.Error
	body["error_description"] = cfg.ErrorDescription
	body["message"] = cfg.Message

	var out bytes.Buffer
	if err := json.NewEncoder(&out).Encode(body); err != nil {
		return nil, false
	}
	return out.Bytes(), true
}
