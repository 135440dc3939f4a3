package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

const defaultImportFormat = "rbxm"

// ImportRequest is an import call with its required fields present.
type ImportRequest struct {
	APIKey      string
	Source      model.ImportSource
	SourceValue string
	Format      string
}

// ImportResult carries the fetched bytes.
type ImportResult struct {
	Data      []byte
	Format    string
	FetchedAt time.Time
}

// ImportService fetches asset bytes on behalf of an authenticated caller.
type ImportService struct {
	keys    *KeyService
	gateway driven.AssetGateway
	now     func() time.Time
	logger  *slog.Logger
}

// NewImportService creates an ImportService.
func NewImportService(keys *KeyService, gateway driven.AssetGateway, logger *slog.Logger) *ImportService {
	return &ImportService{keys: keys, gateway: gateway, now: time.Now, logger: logger}
}

// Import authenticates req.APIKey and fetches from the requested source.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if _, err := s.keys.Authenticate(req.APIKey); err != nil {
		return ImportResult{}, err
	}
	if !req.Source.Valid() {
		return ImportResult{}, &model.InvalidSourceError{Source: string(req.Source)}
	}

	s.logger.Info("importing", "source", req.Source)

	data, err := s.gateway.Fetch(ctx, req.Source, req.SourceValue)
	if err != nil {
		return ImportResult{}, err
	}

	s.keys.Touch(req.APIKey)

	format := req.Format
	if format == "" {
		format = defaultImportFormat
	}
	s.logger.Info("import complete", "bytes", len(data))

	return ImportResult{Data: data, Format: format, FetchedAt: s.now()}, nil
}
