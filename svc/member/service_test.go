package member_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/svc/member"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
	"github.com/gymgo/gymgo/svc/usage"
)

// newFixture wires a real engine over in-memory stores so the service is
// exercised end to end: checks see rows the service itself created.
func newFixture(t *testing.T, tier quota.Tier) (*member.Service, uuid.UUID, *member.MemStore) {
	t.Helper()
	ctx := context.Background()

	orgs := organization.NewMemStore()
	org := &organization.Organization{Slug: "test-gym", Name: "Test Gym", Tier: tier}
	require.NoError(t, orgs.Create(ctx, org))

	store := member.NewMemStore()
	counters := quota.NewRegistry()
	counters.Register(quota.ResourceMembers, store.CountMembers)
	counters.Register(quota.ResourceUsers, func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		return store.CountStaff(ctx, orgID, quota.SystemRoles())
	})
	counters.Register(quota.ResourceTrainers, func(ctx context.Context, orgID uuid.UUID) (int64, error) {
		return store.CountStaff(ctx, orgID, quota.TrainerRoles())
	})

	engine, err := quota.NewEngine(ctx, quota.DefaultSource(), organization.NewPlanSource(orgs), counters, usage.NewMemStore())
	require.NoError(t, err)

	return member.NewService(store, engine, nil), org.ID, store
}

func TestAddMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates member below the ceiling", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter)

		m, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "Ana Pérez", Email: "ANA@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Ana Pérez", m.FullName)
		assert.Equal(t, "ana@example.com", m.Email)
		assert.False(t, m.JoinedAt.IsZero())
	})

	t.Run("denies at the ceiling with limit error", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter) // 10 members

		for i := range 10 {
			_, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "Member", Email: email(i)})
			require.NoError(t, err)
		}

		_, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "Extra"})
		require.Error(t, err)
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)

		var limitErr *quota.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.EqualValues(t, 10, limitErr.Result.Current)
		assert.Contains(t, limitErr.Error(), "límite de 10 miembros")
	})

	t.Run("frees capacity after removal", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter)

		var last *member.Member
		for i := range 10 {
			m, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "Member", Email: email(i)})
			require.NoError(t, err)
			last = m
		}

		require.NoError(t, svc.RemoveMember(ctx, orgID, last.ID))

		_, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "Replacement"})
		assert.NoError(t, err)
	})

	t.Run("blank name rejected before any check", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter)

		_, err := svc.AddMember(ctx, orgID, member.AddMemberInput{FullName: "   "})
		assert.ErrorIs(t, err, member.ErrInvalidName)
	})

	t.Run("unknown organization denied", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newFixture(t, quota.TierStarter)

		_, err := svc.AddMember(ctx, uuid.New(), member.AddMemberInput{FullName: "Ghost"})
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)
	})
}

func TestAddStaff(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("trainer ceiling independent from system-user ceiling", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter) // users: 2, trainers: 1

		_, err := svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Coach", Email: "c1@g.com", Role: quota.RoleTrainer})
		require.NoError(t, err)

		// Trainer ceiling is full; system users remain unaffected.
		_, err = svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Coach 2", Email: "c2@g.com", Role: quota.RoleInstructor})
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)

		_, err = svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Owner", Email: "o@g.com", Role: quota.RoleOwner})
		assert.NoError(t, err)

		_, err = svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Admin", Email: "a@g.com", Role: quota.RoleAdmin})
		assert.NoError(t, err)

		_, err = svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Nutri", Email: "n@g.com", Role: quota.RoleNutritionist})
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierStarter)

		_, err := svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "X", Role: quota.Role("janitor")})
		assert.ErrorIs(t, err, member.ErrInvalidRole)
	})

	t.Run("enterprise tier never denies", func(t *testing.T) {
		t.Parallel()
		svc, orgID, _ := newFixture(t, quota.TierEnterprise)

		for i := range 25 {
			_, err := svc.AddStaff(ctx, orgID, member.AddStaffInput{FullName: "Coach", Email: email(i), Role: quota.RoleTrainer})
			require.NoError(t, err)
		}
	})
}

func email(i int) string {
	return string(rune('a'+i%26)) + uuid.NewString()[:8] + "@example.com"
}
