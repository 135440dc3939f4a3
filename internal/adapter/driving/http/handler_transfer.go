package httphandler

import (
	"encoding/base64"
	"mime"
	"net/http"
	"strconv"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/application"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

const (
	devicePathPrefix     = "/storage/emulated/0/Download/"
	marketplaceURLPrefix = "https://www.roblox.com/library/"
)

// Export renders the scene document to rbxmx and optionally publishes it.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.missing(); len(fields) > 0 {
		h.writeServiceError(w, r, &model.MissingFieldError{Fields: fields})
		return
	}

	result, err := h.exports.Export(r.Context(), application.ExportRequest{
		APIKey:      req.APIKey,
		Data:        req.Data,
		Format:      req.Format,
		Name:        req.Name,
		Description: req.Description,
		Publish:     req.PublishToMarketplace,
		AssetType:   req.AssetType,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := ExportResponse{
		Success:     true,
		DownloadURL: requestScheme(r) + "://" + r.Host + "/download/" + result.FileName,
		FilePath:    devicePathPrefix + result.FileName,
		FileName:    result.FileName,
		FileData:    base64.StdEncoding.EncodeToString(result.Content),
		FileSize:    len(result.Content),
		Timestamp:   isoTime(result.CreatedAt),
	}
	if p := result.Publish; p != nil {
		if p.Error != "" {
			resp.PublishError = p.Error
		} else {
			resp.AssetID = p.AssetID
			resp.MarketplaceURL = marketplaceURLPrefix + p.AssetID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Import fetches asset bytes and returns them base64 encoded.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.missing(); len(fields) > 0 {
		h.writeServiceError(w, r, &model.MissingFieldError{Fields: fields})
		return
	}

	result, err := h.imports.Import(r.Context(), application.ImportRequest{
		APIKey:      req.APIKey,
		Source:      model.ImportSource(req.Source),
		SourceValue: req.SourceValue,
		Format:      req.Format,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Success:   true,
		Data:      base64.StdEncoding.EncodeToString(result.Data),
		Format:    result.Format,
		Size:      len(result.Data),
		Timestamp: isoTime(result.FetchedAt),
		Message:   msgImported,
	})
}

// Download serves a previously exported file while it is retained.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")

	artifact, err := h.exports.Download(r.Context(), fileName)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if artifact == nil {
		writeError(w, http.StatusNotFound, msgFileNotFound)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.FileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Content)
}
