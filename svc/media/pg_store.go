package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgo/gymgo/pkg/pg"
)

// pgStore is the production Store backed by PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by the given connection pool.
func NewPgStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) Create(ctx context.Context, f *File) error {
	f.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO media_files (id, organization_id, category, filename, path, mime_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.OrganizationID, string(f.Category), f.Filename, f.Path, f.MIMEType, f.SizeBytes, f.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *pgStore) GetByID(ctx context.Context, orgID, id uuid.UUID) (*File, error) {
	var (
		f        File
		category string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, organization_id, category, filename, path, mime_type, size_bytes, created_at
		FROM media_files WHERE organization_id = $1 AND id = $2`, orgID, id,
	).Scan(&f.ID, &f.OrganizationID, &category, &f.Filename, &f.Path, &f.MIMEType, &f.SizeBytes, &f.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	f.Category = Category(category)
	return &f, nil
}

func (s *pgStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]File, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, organization_id, category, filename, path, mime_type, size_bytes, created_at
		FROM media_files WHERE organization_id = $1
		ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (File, error) {
		var (
			f        File
			category string
		)
		err := row.Scan(&f.ID, &f.OrganizationID, &category, &f.Filename, &f.Path, &f.MIMEType, &f.SizeBytes, &f.CreatedAt)
		f.Category = Category(category)
		return f, err
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return files, nil
}

func (s *pgStore) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM media_files WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var freed int64
	err := s.pool.QueryRow(ctx, `
		WITH removed AS (
			DELETE FROM media_files WHERE organization_id = $1 RETURNING size_bytes
		)
		SELECT COALESCE(SUM(size_bytes), 0) FROM removed`, orgID,
	).Scan(&freed)
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return freed, nil
}
