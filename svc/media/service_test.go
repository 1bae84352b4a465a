package media_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/pkg/storage"
	"github.com/gymgo/gymgo/svc/media"
	"github.com/gymgo/gymgo/svc/organization"
	"github.com/gymgo/gymgo/svc/quota"
	"github.com/gymgo/gymgo/svc/usage"
)

func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := &http.Request{
		Method: "POST",
		Header: http.Header{
			"Content-Type": []string{writer.FormDataContentType()},
		},
		Body: io.NopCloser(body),
	}
	require.NoError(t, req.ParseMultipartForm(64<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fixture struct {
	svc    *media.Service
	engine *quota.Engine
	orgID  uuid.UUID
}

func newFixture(t *testing.T, tier quota.Tier) *fixture {
	t.Helper()
	ctx := context.Background()

	orgs := organization.NewMemStore()
	org := &organization.Organization{Slug: "test-gym", Name: "Test Gym", Tier: tier}
	require.NoError(t, orgs.Create(ctx, org))

	engine, err := quota.NewEngine(ctx, quota.DefaultSource(), organization.NewPlanSource(orgs), quota.NewRegistry(), usage.NewMemStore())
	require.NoError(t, err)

	backend, err := storage.NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	return &fixture{
		svc:    media.NewService(media.NewMemStore(), backend, engine, nil),
		engine: engine,
		orgID:  org.ID,
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores photo and updates the gauge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter)

		fh := createFileHeader(t, "perfil.png", pngHeader)
		file, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.NoError(t, err)

		assert.Equal(t, "perfil.png", file.Filename)
		assert.Equal(t, "image/png", file.MIMEType)
		assert.EqualValues(t, len(pngHeader), file.SizeBytes)
		assert.Equal(t, "/media/"+file.Path, f.svc.URL(file))

		check := f.engine.CheckStorageLimit(ctx, f.orgID)
		assert.EqualValues(t, len(pngHeader), check.Current)

		got, err := f.svc.Get(ctx, f.orgID, file.ID)
		require.NoError(t, err)
		assert.Equal(t, file.Path, got.Path)
	})

	t.Run("denies oversized file with plan message", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter) // 10 MB per file

		fh := createFileHeader(t, "video.bin", make([]byte, 11<<20))
		_, err := f.svc.Upload(ctx, f.orgID, media.CategoryGeneric, fh)
		require.Error(t, err)
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)

		var sizeErr *media.FileSizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.EqualValues(t, 10, sizeErr.Result.MaxSizeMB)
	})

	t.Run("denies when the storage allowance is exhausted", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter) // 1 GiB total

		res := f.engine.UpdateStorageUsage(ctx, f.orgID, 1<<30)
		require.True(t, res.Success)

		fh := createFileHeader(t, "perfil.png", pngHeader)
		_, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.Error(t, err)
		assert.ErrorIs(t, err, quota.ErrLimitExceeded)

		var limitErr *quota.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.False(t, limitErr.Result.Allowed)
	})

	t.Run("rejects content that does not match the category", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth)

		fh := createFileHeader(t, "notas.txt", []byte("solo texto"))
		_, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		assert.ErrorIs(t, err, media.ErrInvalidContent)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierGrowth)

		fh := createFileHeader(t, "a.png", pngHeader)
		_, err := f.svc.Upload(ctx, f.orgID, media.Category("backups"), fh)
		assert.ErrorIs(t, err, media.ErrInvalidCategory)
	})

	t.Run("enterprise storage is unmetered but still tracked", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierEnterprise)

		fh := createFileHeader(t, "perfil.png", pngHeader)
		_, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.NoError(t, err)

		check := f.engine.CheckStorageLimit(ctx, f.orgID)
		assert.True(t, check.Allowed)
		assert.EqualValues(t, quota.Unlimited, check.Limit)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("releases bytes from the gauge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter)

		fh := createFileHeader(t, "perfil.png", pngHeader)
		file, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, f.orgID, file.ID))

		check := f.engine.CheckStorageLimit(ctx, f.orgID)
		assert.EqualValues(t, 0, check.Current)

		_, err = f.svc.Get(ctx, f.orgID, file.ID)
		assert.ErrorIs(t, err, media.ErrNotFound)
	})

	t.Run("unknown file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter)
		assert.ErrorIs(t, f.svc.Delete(ctx, f.orgID, uuid.New()), media.ErrNotFound)
	})

	t.Run("scoped to the owning organization", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, quota.TierStarter)

		fh := createFileHeader(t, "perfil.png", pngHeader)
		file, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.Delete(ctx, uuid.New(), file.ID), media.ErrNotFound)
	})
}

func TestPurgeOrganization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, quota.TierStarter)

	for _, name := range []string{"uno.png", "dos.png"} {
		fh := createFileHeader(t, name, pngHeader)
		_, err := f.svc.Upload(ctx, f.orgID, media.CategoryPhoto, fh)
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.PurgeOrganization(ctx, f.orgID))

	files, err := f.svc.List(ctx, f.orgID)
	require.NoError(t, err)
	assert.Empty(t, files)

	check := f.engine.CheckStorageLimit(ctx, f.orgID)
	assert.EqualValues(t, 0, check.Current)

	// Purging an already-empty organization is a no-op.
	require.NoError(t, f.svc.PurgeOrganization(ctx, f.orgID))
}
