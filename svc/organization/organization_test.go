package organization_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
)

func int64ptr(v int64) *int64 { return &v }

func TestPlanData(t *testing.T) {
	t.Parallel()

	t.Run("only set overrides are exported", func(t *testing.T) {
		t.Parallel()

		org := &organization.Organization{
			Tier:       quota.TierGrowth,
			MaxMembers: int64ptr(25),
			MaxUsers:   int64ptr(3),
			Features:   map[quota.Feature]bool{quota.FeatureAIAssistant: true},
		}

		plan := org.PlanData()
		assert.Equal(t, quota.TierGrowth, plan.Tier)
		assert.Equal(t, map[quota.Resource]int64{
			quota.ResourceMembers: 25,
			quota.ResourceUsers:   3,
		}, plan.Overrides)
		assert.True(t, plan.Features[quota.FeatureAIAssistant])
	})

	t.Run("no overrides means empty map", func(t *testing.T) {
		t.Parallel()

		plan := (&organization.Organization{Tier: quota.TierStarter}).PlanData()
		assert.Empty(t, plan.Overrides)
	})
}

func TestMemStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()

		store := organization.NewMemStore()
		org := &organization.Organization{Slug: "iron-temple", Name: "Iron Temple", Tier: quota.TierPro}
		require.NoError(t, store.Create(ctx, org))
		require.NotEqual(t, uuid.Nil, org.ID)

		byID, err := store.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Iron Temple", byID.Name)

		bySlug, err := store.GetBySlug(ctx, "iron-temple")
		require.NoError(t, err)
		assert.Equal(t, org.ID, bySlug.ID)
	})

	t.Run("duplicate slug rejected", func(t *testing.T) {
		t.Parallel()

		store := organization.NewMemStore()
		require.NoError(t, store.Create(ctx, &organization.Organization{Slug: "gym", Tier: quota.TierStarter}))
		err := store.Create(ctx, &organization.Organization{Slug: "gym", Tier: quota.TierStarter})
		assert.ErrorIs(t, err, organization.ErrSlugTaken)
	})

	t.Run("invalid tier rejected", func(t *testing.T) {
		t.Parallel()

		store := organization.NewMemStore()
		err := store.Create(ctx, &organization.Organization{Slug: "x", Tier: quota.Tier("gold")})
		assert.ErrorIs(t, err, organization.ErrInvalidTier)
	})

	t.Run("update and delete", func(t *testing.T) {
		t.Parallel()

		store := organization.NewMemStore()
		org := &organization.Organization{Slug: "box", Name: "Box", Tier: quota.TierStarter}
		require.NoError(t, store.Create(ctx, org))

		org.Tier = quota.TierGrowth
		org.MaxMembers = int64ptr(500)
		require.NoError(t, store.Update(ctx, org))

		got, err := store.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, quota.TierGrowth, got.Tier)
		require.NotNil(t, got.MaxMembers)
		assert.EqualValues(t, 500, *got.MaxMembers)

		require.NoError(t, store.Delete(ctx, org.ID))
		_, err = store.GetByID(ctx, org.ID)
		assert.ErrorIs(t, err, organization.ErrNotFound)
	})

	t.Run("stored copy is isolated from caller", func(t *testing.T) {
		t.Parallel()

		store := organization.NewMemStore()
		org := &organization.Organization{
			Slug:     "mutate",
			Tier:     quota.TierStarter,
			Features: map[quota.Feature]bool{quota.FeatureWhatsApp: true},
		}
		require.NoError(t, store.Create(ctx, org))
		org.Features[quota.FeatureWhatsApp] = false

		got, err := store.GetByID(ctx, org.ID)
		require.NoError(t, err)
		assert.True(t, got.Features[quota.FeatureWhatsApp])
	})
}

func TestPlanSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := organization.NewMemStore()
	org := &organization.Organization{Slug: "src", Tier: quota.TierGrowth, MaxMembers: int64ptr(7)}
	require.NoError(t, store.Create(ctx, org))

	src := organization.NewPlanSource(store)

	plan, err := src.OrgPlan(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, quota.TierGrowth, plan.Tier)
	assert.EqualValues(t, 7, plan.Overrides[quota.ResourceMembers])

	_, err = src.OrgPlan(ctx, uuid.New())
	assert.ErrorIs(t, err, quota.ErrOrganizationNotFound)
}
