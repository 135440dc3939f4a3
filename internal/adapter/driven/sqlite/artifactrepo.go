package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/model"
	"github.com/pczin9531-tech/robloximportexportserverm/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ArtifactStore = (*ArtifactRepo)(nil)

// ArtifactRepo is the SQLite implementation of the ArtifactStore port interface.
type ArtifactRepo struct {
	db *DB
}

// NewArtifactRepo creates a new ArtifactRepo backed by the given DB.
func NewArtifactRepo(db *DB) *ArtifactRepo {
	return &ArtifactRepo{db: db}
}

// Save inserts or replaces the artifact keyed by its file name.
func (r *ArtifactRepo) Save(ctx context.Context, a model.Artifact) error {
	const query = `
		INSERT INTO artifacts (file_name, content_type, content, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			content_type = excluded.content_type,
			content = excluded.content,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		a.FileName, a.ContentType, a.Content, formatTime(a.CreatedAt), formatTime(a.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save artifact %q: %w", a.FileName, err)
	}
	return nil
}

// Get returns the artifact named fileName, or nil if it is missing or
// expired before now.
func (r *ArtifactRepo) Get(ctx context.Context, fileName string, now time.Time) (*model.Artifact, error) {
	const query = `
		SELECT file_name, content_type, content, created_at, expires_at
		FROM artifacts
		WHERE file_name = ? AND expires_at >= ?
	`

	var (
		a         model.Artifact
		createdAt string
		expiresAt string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, fileName, formatTime(now)).
		Scan(&a.FileName, &a.ContentType, &a.Content, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %q: %w", fileName, err)
	}

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for artifact %q: %w", fileName, err)
	}
	if a.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at for artifact %q: %w", fileName, err)
	}

	return &a, nil
}

// DeleteExpired removes artifacts whose expiry is before now.
func (r *ArtifactRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM artifacts WHERE expires_at < ?`

	res, err := r.db.Writer.ExecContext(ctx, query, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired artifacts: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
