package driven

import (
	"context"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// AssetGateway defines the driven port for the upstream asset platform.
type AssetGateway interface {
	// Upload publishes file as a new asset using credential and returns the
	// platform-assigned asset id. Failures are *model.UpstreamError.
	Upload(ctx context.Context, credential string, file []byte, assetType, name, description string) (string, error)

	// Fetch returns the bytes named by source and value. Unknown sources or
	// unusable values yield *model.InvalidSourceError; failed network calls
	// yield *model.UpstreamError.
	Fetch(ctx context.Context, source model.ImportSource, value string) ([]byte, error)
}
