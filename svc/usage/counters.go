package usage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgo/gymgo/svc/quota"
)

// RegisterPgCounters registers a row counter for every counted resource over
// the relational schema. Staff counters are role-filtered: system roles and
// trainer roles are disjoint sets, each metered against its own ceiling.
func RegisterPgCounters(reg quota.CounterRegistry, pool *pgxpool.Pool) {
	reg.Register(quota.ResourceMembers, countQuery(pool,
		`SELECT count(*) FROM members WHERE organization_id = $1`))
	reg.Register(quota.ResourceUsers, roleCountQuery(pool, quota.SystemRoles()))
	reg.Register(quota.ResourceTrainers, roleCountQuery(pool, quota.TrainerRoles()))
	reg.Register(quota.ResourceLocations, countQuery(pool,
		`SELECT count(*) FROM locations WHERE organization_id = $1`))
	reg.Register(quota.ResourceClasses, countQuery(pool,
		`SELECT count(*) FROM classes WHERE organization_id = $1`))
}

func countQuery(pool *pgxpool.Pool, query string) quota.CounterFunc {
	return func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		var count int64
		if err := pool.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
			return 0, errors.Join(ErrCounterUnavailable, err)
		}
		return count, nil
	}
}

func roleCountQuery(pool *pgxpool.Pool, roles []string) quota.CounterFunc {
	const query = `SELECT count(*) FROM staff WHERE organization_id = $1 AND role = ANY($2)`
	return func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		var count int64
		if err := pool.QueryRow(ctx, query, orgID, roles).Scan(&count); err != nil {
			return 0, errors.Join(ErrCounterUnavailable, err)
		}
		return count, nil
	}
}
