package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

func (s *pgStore) CreateMember(ctx context.Context, m *Member) error {
	m.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO members (id, organization_id, full_name, email, phone, joined_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.OrganizationID, m.FullName, m.Email, m.Phone, m.JoinedAt, m.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *pgStore) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, organization_id, full_name, email, phone, joined_at, created_at
		FROM members WHERE organization_id = $1
		ORDER BY full_name`, orgID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Member, error) {
		var m Member
		err := row.Scan(&m.ID, &m.OrganizationID, &m.FullName, &m.Email, &m.Phone, &m.JoinedAt, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return members, nil
}

func (s *pgStore) DeleteMember(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM members WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) CreateStaff(ctx context.Context, st *Staff) error {
	st.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO staff (id, organization_id, full_name, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		st.ID, st.OrganizationID, st.FullName, st.Email, string(st.Role), st.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *pgStore) ListStaff(ctx context.Context, orgID uuid.UUID) ([]Staff, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, organization_id, full_name, email, role, created_at
		FROM staff WHERE organization_id = $1
		ORDER BY full_name`, orgID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	staff, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Staff, error) {
		var (
			st   Staff
			role string
		)
		err := row.Scan(&st.ID, &st.OrganizationID, &st.FullName, &st.Email, &role, &st.CreatedAt)
		st.Role = quota.Role(role)
		return st, err
	})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return staff, nil
}

func (s *pgStore) DeleteStaff(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM staff WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
