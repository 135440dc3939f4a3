package driven

import (
	"context"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
)

// ArtifactStore defines the driven port for exported files awaiting download.
type ArtifactStore interface {
	// Save stores or replaces the artifact with the same file name.
	Save(ctx context.Context, artifact model.Artifact) error

	// Get returns the artifact with fileName, or nil if it does not exist or
	// expired before now.
	Get(ctx context.Context, fileName string, now time.Time) (*model.Artifact, error)

	// DeleteExpired removes artifacts that expired before now and returns how
	// many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
