package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

const (
	defaultExportName   = "export"
	defaultExportFormat = "rbxmx"
	defaultAssetType    = "Model"
)

// ExportRequest is a validated export call.
type ExportRequest struct {
	APIKey      string
	Data        []byte
	Format      string
	Name        string
	Description string
	Publish     bool
	AssetType   string
}

// ExportResult is a rendered export. Publish is nil unless publishing was
// requested.
type ExportResult struct {
	FileName  string
	Content   []byte
	CreatedAt time.Time
	Publish   *model.PublishResult
}

// ExportService renders scenes, keeps the file for download and optionally
// publishes it upstream.
type ExportService struct {
	keys       *KeyService
	serializer *SceneSerializer
	artifacts  driven.ArtifactStore
	gateway    driven.AssetGateway
	retention  time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewExportService creates an ExportService. Artifacts are kept for retention.
func NewExportService(
	keys *KeyService,
	serializer *SceneSerializer,
	artifacts driven.ArtifactStore,
	gateway driven.AssetGateway,
	retention time.Duration,
	logger *slog.Logger,
) *ExportService {
	return &ExportService{
		keys:       keys,
		serializer: serializer,
		artifacts:  artifacts,
		gateway:    gateway,
		retention:  retention,
		now:        time.Now,
		logger:     logger,
	}
}

// Export authenticates req.APIKey, renders req.Data and stores the result.
// A failed upload does not fail the export; it is reported in Publish.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	credential, err := s.keys.Authenticate(req.APIKey)
	if err != nil {
		return ExportResult{}, err
	}

	name := req.Name
	if name == "" {
		name = defaultExportName
	}
	s.logger.Info("exporting", "name", name)

	doc, err := s.serializer.Serialize(req.Data)
	if err != nil {
		return ExportResult{}, err
	}

	now := s.now()
	result := ExportResult{
		FileName:  ExportFileName(req.Name, req.Format, now),
		Content:   []byte(doc),
		CreatedAt: now,
	}

	artifact := model.Artifact{
		FileName:    result.FileName,
		ContentType: contentTypeFor(req.Format),
		Content:     result.Content,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.retention),
	}
	if err := s.artifacts.Save(ctx, artifact); err != nil {
		return ExportResult{}, fmt.Errorf("save artifact %q: %w", result.FileName, err)
	}

	if req.Publish {
		result.Publish = s.publish(ctx, credential, result.Content, req)
	}

	s.keys.Touch(req.APIKey)
	s.logger.Info("export complete", "file", result.FileName, "bytes", len(result.Content))

	return result, nil
}

func (s *ExportService) publish(ctx context.Context, credential string, content []byte, req ExportRequest) *model.PublishResult {
	assetType := req.AssetType
	if assetType == "" {
		assetType = defaultAssetType
	}
	name := req.Name
	if name == "" {
		name = defaultExportName
	}

	s.logger.Info("publishing to marketplace", "name", name, "asset_type", assetType)
	assetID, err := s.gateway.Upload(ctx, credential, content, assetType, name, req.Description)
	if err != nil {
		s.logger.Warn("publish failed", "name", name, "error", err)
		return &model.PublishResult{Error: err.Error()}
	}

	s.logger.Info("published", "asset_id", assetID)
	return &model.PublishResult{AssetID: assetID}
}

// Download returns a stored export, or nil if it is unknown or expired.
func (s *ExportService) Download(ctx context.Context, fileName string) (*model.Artifact, error) {
	return s.artifacts.Get(ctx, fileName, s.now())
}

// RunRetention deletes expired artifacts on every interval until ctx is canceled.
func (s *ExportService) RunRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("artifact retention stopped")
			return
		case <-ticker.C:
			n, err := s.artifacts.DeleteExpired(ctx, s.now())
			if err != nil {
				s.logger.Error("artifact retention failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired artifacts removed", "count", n)
			}
		}
	}
}

// ExportFileName builds "<name>_<unix millis>.<format>" with the export
// defaults for empty parts.
func ExportFileName(name, format string, at time.Time) string {
	if name == "" {
		name = defaultExportName
	}
	if format == "" {
		format = defaultExportFormat
	}
	return name + "_" + strconv.FormatInt(at.UnixMilli(), 10) + "." + format
}

func contentTypeFor(format string) string {
	switch format {
	case "", "rbxmx", "rbxlx", "xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
