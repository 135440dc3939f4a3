package httphandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// GenerateKey issues a new API key.
func (h *Handler) GenerateKey(w http.ResponseWriter, r *http.Request) {
	var req GenerateKeyRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	key, err := h.keys.Generate(userIDString(req.UserID), req.Username, req.Credential)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateKeyResponse{
		Success:   true,
		Key:       key.Secret,
		ExpiresIn: secondsOf(key.TTL),
		ExpiresAt: isoTime(key.ExpiresAt),
		Message:   msgKeyGenerated,
	})
}

// DeleteKey revokes an API key. Deleting an unknown key is not an error.
func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	var req DeleteKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.missing(); len(fields) > 0 {
		h.writeServiceError(w, r, &model.MissingFieldError{Fields: fields})
		return
	}

	writeJSON(w, http.StatusOK, DeleteKeyResponse{
		Success: true,
		Deleted: h.keys.Delete(req.Key),
	})
}

// userIDString accepts the user id as either a JSON string or a number.
func userIDString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	v := strings.TrimSpace(string(raw))
	if v == "null" {
		return ""
	}
	return v
}
