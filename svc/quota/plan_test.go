package quota_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/svc/quota"
)

func TestDefaultSource(t *testing.T) {
	t.Parallel()

	catalog, err := quota.DefaultSource().Load(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 4)
	assert.EqualValues(t, 10, catalog[quota.TierStarter].Limits[quota.ResourceMembers])
	assert.EqualValues(t, quota.Unlimited, catalog[quota.TierEnterprise].Limits[quota.ResourceMembers])
	assert.True(t, catalog[quota.TierPro].Features[quota.FeatureAIAssistant])
	assert.False(t, catalog[quota.TierStarter].Features[quota.FeatureAIAssistant])

	t.Run("loaded catalog is a copy", func(t *testing.T) {
		t.Parallel()

		src := quota.DefaultSource()
		first, err := src.Load(context.Background())
		require.NoError(t, err)
		first[quota.TierStarter].Limits[quota.ResourceMembers] = 777

		second, err := src.Load(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 10, second[quota.TierStarter].Limits[quota.ResourceMembers])
	})
}

func TestNewEngineCatalogValidation(t *testing.T) {
	t.Parallel()

	t.Run("missing tier rejected", func(t *testing.T) {
		t.Parallel()

		catalog, err := quota.DefaultSource().Load(context.Background())
		require.NoError(t, err)
		delete(catalog, quota.TierPro)

		_, err = quota.NewEngine(context.Background(), quota.NewStaticSource(catalog), &stubOrgs{}, nil, nil)
		assert.ErrorIs(t, err, quota.ErrIncompleteCatalog)
	})

	t.Run("missing resource rejected", func(t *testing.T) {
		t.Parallel()

		catalog, err := quota.DefaultSource().Load(context.Background())
		require.NoError(t, err)
		delete(catalog[quota.TierGrowth].Limits, quota.ResourceClasses)

		_, err = quota.NewEngine(context.Background(), quota.NewStaticSource(catalog), &stubOrgs{}, nil, nil)
		assert.ErrorIs(t, err, quota.ErrIncompleteCatalog)
	})

	t.Run("limit below -1 rejected", func(t *testing.T) {
		t.Parallel()

		catalog, err := quota.DefaultSource().Load(context.Background())
		require.NoError(t, err)
		catalog[quota.TierGrowth].Limits[quota.ResourceMembers] = -5

		_, err = quota.NewEngine(context.Background(), quota.NewStaticSource(catalog), &stubOrgs{}, nil, nil)
		assert.ErrorIs(t, err, quota.ErrInvalidPlanConfiguration)
	})
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	t.Run("overrides merge onto defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
plans:
  starter:
    name: Trial
    limits:
      members: 25
    features: [whatsapp]
  pro:
    limits:
      whatsapp_messages: 9000
`), 0o644))

		catalog, err := quota.NewFileSource(path).Load(context.Background())
		require.NoError(t, err)

		starter := catalog[quota.TierStarter]
		assert.Equal(t, "Trial", starter.Name)
		assert.EqualValues(t, 25, starter.Limits[quota.ResourceMembers])
		// Unspecified resources keep their defaults.
		assert.EqualValues(t, 2, starter.Limits[quota.ResourceUsers])
		assert.True(t, starter.Features[quota.FeatureWhatsApp])

		assert.EqualValues(t, 9000, catalog[quota.TierPro].Limits[quota.ResourceWhatsApp])
		assert.EqualValues(t, 200, catalog[quota.TierGrowth].Limits[quota.ResourceMembers])
	})

	t.Run("unknown tier rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "plans.yaml")
		require.NoError(t, os.WriteFile(path, []byte("plans:\n  platinum:\n    name: Platinum\n"), 0o644))

		_, err := quota.NewFileSource(path).Load(context.Background())
		assert.ErrorIs(t, err, quota.ErrUnknownTier)
	})

	t.Run("missing file reported", func(t *testing.T) {
		t.Parallel()

		_, err := quota.NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
		assert.ErrorIs(t, err, quota.ErrFailedToLoadCatalog)
	})
}

func TestRolePartition(t *testing.T) {
	t.Parallel()

	for _, role := range []quota.Role{quota.RoleTrainer, quota.RoleInstructor} {
		assert.True(t, role.IsTrainer())
		assert.False(t, role.IsSystem())
	}
	for _, role := range []quota.Role{quota.RoleOwner, quota.RoleAdmin, quota.RoleAssistant, quota.RoleNutritionist} {
		assert.True(t, role.IsSystem())
		assert.False(t, role.IsTrainer())
	}
	for _, role := range []quota.Role{quota.RoleMember, quota.Role("visitor")} {
		assert.False(t, role.IsSystem())
		assert.False(t, role.IsTrainer())
	}

	assert.ElementsMatch(t, []string{"owner", "admin", "assistant", "nutritionist"}, quota.SystemRoles())
	assert.ElementsMatch(t, []string{"trainer", "instructor"}, quota.TrainerRoles())
}
