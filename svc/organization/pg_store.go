package organization

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgo/gymgo/pkg/pg"
	"github.com/gymgo/gymgo/svc/quota"
)

// pgStore is the production Store backed by PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a Store backed by the given connection pool.
func NewPgStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

const orgColumns = `id, slug, name, tier, max_members, max_users, max_trainers, max_locations, features, created_at, updated_at`

func (s *pgStore) Create(ctx context.Context, org *Organization) error {
	if !org.Tier.Valid() {
		return ErrInvalidTier
	}
	features, err := marshalFeatures(org.Features)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO organizations (`+orgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		org.ID, org.Slug, org.Name, string(org.Tier),
		org.MaxMembers, org.MaxUsers, org.MaxTrainers, org.MaxLocations,
		features, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *pgStore) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return s.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
}

func (s *pgStore) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	return s.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE slug = $1`, slug)
}

func (s *pgStore) getOne(ctx context.Context, query string, arg any) (*Organization, error) {
	var (
		org      Organization
		tier     string
		features []byte
	)
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&org.ID, &org.Slug, &org.Name, &tier,
		&org.MaxMembers, &org.MaxUsers, &org.MaxTrainers, &org.MaxLocations,
		&features, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	org.Tier = quota.Tier(tier)
	if org.Features, err = unmarshalFeatures(features); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &org, nil
}

func (s *pgStore) Update(ctx context.Context, org *Organization) error {
	if !org.Tier.Valid() {
		return ErrInvalidTier
	}
	features, err := marshalFeatures(org.Features)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	org.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE organizations
		SET name = $2, tier = $3, max_members = $4, max_users = $5,
		    max_trainers = $6, max_locations = $7, features = $8, updated_at = $9
		WHERE id = $1`,
		org.ID, org.Name, string(org.Tier),
		org.MaxMembers, org.MaxUsers, org.MaxTrainers, org.MaxLocations,
		features, org.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalFeatures(features map[quota.Feature]bool) ([]byte, error) {
	if features == nil {
		features = map[quota.Feature]bool{}
	}
	return json.Marshal(features)
}

func unmarshalFeatures(raw []byte) (map[quota.Feature]bool, error) {
	if len(raw) == 0 {
		return map[quota.Feature]bool{}, nil
	}
	var features map[quota.Feature]bool
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, err
	}
	return features, nil
}
