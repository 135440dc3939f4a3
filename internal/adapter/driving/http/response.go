package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// Client-facing messages. The Studio plugin shows these verbatim.
const (
	msgNotFound       = "Endpoint não encontrado"
	msgInternal       = "Erro interno do servidor"
	msgUnauthorized   = "API key inválida ou expirada"
	msgIncomplete     = "Dados incompletos"
	msgInvalidJSON    = "JSON inválido"
	msgBodyTooLarge   = "Corpo da requisição muito grande"
	msgTooManyRequest = "Muitas requisições, tente novamente mais tarde"
	msgFileNotFound   = "Arquivo não encontrado"
	msgKeyGenerated   = "API Key gerada com sucesso!"
	msgImported       = "Importação processada com sucesso"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"` + msgInternal + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a failure envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// writeServiceError maps a service error onto its HTTP status. It is the only
// place where domain errors become transport responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing   *model.MissingFieldError
		parseErr  *model.ParseError
		sourceErr *model.InvalidSourceError
		upErr     *model.UpstreamError
	)

	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusBadRequest, msgIncomplete+": "+strings.Join(missing.Fields, ", "))
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadRequest, parseErr.Error())
	case errors.As(err, &sourceErr):
		writeError(w, http.StatusBadRequest, sourceErr.Error())
	case errors.As(err, &upErr):
		h.logger.Warn("upstream failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, upErr.Error())
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, internalErrorResponse{
			Success: false,
			Error:   msgInternal,
			Message: err.Error(),
		})
	}
}

// isoTime formats t the way JavaScript's Date.toISOString does.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// errorResponse is the standard failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// internalErrorResponse is the failure envelope for unexpected errors.
type internalErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// notFoundResponse is returned for unmatched routes.
type notFoundResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Path    string `json:"path"`
}

// StatusResponse is the JSON representation of the status endpoint.
type StatusResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	APIKeys   int     `json:"apiKeys"`
	Uptime    float64 `json:"uptime"`
	Port      string  `json:"port"`
	Version   string  `json:"version"`
}

// GenerateKeyRequest is the JSON body for the key generation endpoint.
// Credential, when set, is the upstream session the new key stands in for.
type GenerateKeyRequest struct {
	UserID     json.RawMessage `json:"userId,omitempty"`
	Username   string          `json:"username,omitempty"`
	Credential string          `json:"credential,omitempty"`
}

// GenerateKeyResponse is returned for a newly issued key.
type GenerateKeyResponse struct {
	Success   bool   `json:"success"`
	Key       string `json:"key"`
	ExpiresIn int64  `json:"expiresIn"`
	ExpiresAt string `json:"expiresAt"`
	Message   string `json:"message"`
}

// DeleteKeyRequest is the JSON body for the key deletion endpoint.
type DeleteKeyRequest struct {
	Key string `json:"key"`
}

func (r DeleteKeyRequest) missing() []string {
	if r.Key == "" {
		return []string{"key"}
	}
	return nil
}

// DeleteKeyResponse reports whether a key was removed.
type DeleteKeyResponse struct {
	Success bool `json:"success"`
	Deleted bool `json:"deleted"`
}

// ExportRequest is the JSON body for the export endpoint. Data is the scene
// document, either as an object or as a JSON-encoded string.
type ExportRequest struct {
	APIKey               string          `json:"apiKey"`
	Data                 json.RawMessage `json:"data"`
	Format               string          `json:"format,omitempty"`
	Name                 string          `json:"name,omitempty"`
	Description          string          `json:"description,omitempty"`
	PublishToMarketplace bool            `json:"publishToMarketplace,omitempty"`
	AssetType            string          `json:"assetType,omitempty"`
}

func (r ExportRequest) missing() []string {
	var fields []string
	if r.APIKey == "" {
		fields = append(fields, "apiKey")
	}
	switch strings.TrimSpace(string(r.Data)) {
	case "", "null", `""`:
		fields = append(fields, "data")
	}
	return fields
}

// ExportResponse is returned for a completed export. FileData is base64 and
// FileSize counts decoded bytes.
type ExportResponse struct {
	Success        bool   `json:"success"`
	DownloadURL    string `json:"downloadUrl"`
	FilePath       string `json:"filePath"`
	FileName       string `json:"fileName"`
	FileData       string `json:"fileData"`
	FileSize       int    `json:"fileSize"`
	Timestamp      string `json:"timestamp"`
	AssetID        string `json:"assetId,omitempty"`
	MarketplaceURL string `json:"marketplaceUrl,omitempty"`
	PublishError   string `json:"publishError,omitempty"`
}

// ImportRequest is the JSON body for the import endpoint.
type ImportRequest struct {
	APIKey      string `json:"apiKey"`
	Source      string `json:"source"`
	SourceValue string `json:"sourceValue"`
	Format      string `json:"format,omitempty"`
}

func (r ImportRequest) missing() []string {
	var fields []string
	if r.APIKey == "" {
		fields = append(fields, "apiKey")
	}
	if r.Source == "" {
		fields = append(fields, "source")
	}
	if r.SourceValue == "" {
		fields = append(fields, "sourceValue")
	}
	return fields
}

// ImportResponse carries imported bytes as base64.
type ImportResponse struct {
	Success   bool   `json:"success"`
	Data      string `json:"data"`
	Format    string `json:"format"`
	Size      int    `json:"size"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
