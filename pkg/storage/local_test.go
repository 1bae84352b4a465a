package storage_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/pkg/storage"
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
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

// pngHeader is a minimal valid PNG signature so content sniffing detects
// image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestLocalStorageSave(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	store, err := storage.NewLocalStorage(tempDir, "/media/")
	require.NoError(t, err)

	t.Run("saves under organization prefix", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		fh := createFileHeader(t, "perfil.png", pngHeader)
		key := storage.OrgKey(orgID, "photos", "perfil.png")

		obj, err := store.Save(context.Background(), fh, key)
		require.NoError(t, err)

		assert.Equal(t, "perfil.png", obj.Filename)
		assert.EqualValues(t, len(pngHeader), obj.Size)
		assert.Equal(t, ".png", obj.Extension)
		assert.Equal(t, "image/png", obj.MIMEType)
		assert.Equal(t, key, obj.Path)
		assert.Equal(t, "/media/"+key, store.URL(key))

		data, err := os.ReadFile(filepath.Join(tempDir, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()

		fh := createFileHeader(t, "x.txt", []byte("x"))
		_, err := store.Save(context.Background(), fh, "../escape.txt")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("rejects nil file header", func(t *testing.T) {
		t.Parallel()
		_, err := store.Save(context.Background(), nil, "a/b.txt")
		assert.ErrorIs(t, err, storage.ErrNilFileHeader)
	})
}

func TestLocalStorageDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("deletes existing object", func(t *testing.T) {
		t.Parallel()
		store, err := storage.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		fh := createFileHeader(t, "a.txt", []byte("contenido"))
		obj, err := store.Save(ctx, fh, "org/docs/a.txt")
		require.NoError(t, err)
		require.True(t, store.Exists(ctx, obj.Path))

		require.NoError(t, store.Delete(ctx, obj.Path))
		assert.False(t, store.Exists(ctx, obj.Path))
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		store, err := storage.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		assert.ErrorIs(t, store.Delete(ctx, "nope/missing.txt"), storage.ErrObjectNotFound)
	})

	t.Run("prefix purge removes the whole tree", func(t *testing.T) {
		t.Parallel()
		store, err := storage.NewLocalStorage(t.TempDir(), "/media/")
		require.NoError(t, err)

		orgID := uuid.New()
		for _, name := range []string{"uno.txt", "dos.txt"} {
			fh := createFileHeader(t, name, []byte(name))
			_, err := store.Save(ctx, fh, storage.OrgKey(orgID, "waivers", name))
			require.NoError(t, err)
		}

		require.NoError(t, store.DeletePrefix(ctx, storage.OrgPrefix(orgID)))
		assert.False(t, store.Exists(ctx, storage.OrgKey(orgID, "waivers", "uno.txt")))

		assert.ErrorIs(t, store.DeletePrefix(ctx, storage.OrgPrefix(orgID)), storage.ErrPrefixNotFound)
	})
}

func TestMediaTypeDetection(t *testing.T) {
	t.Parallel()

	t.Run("png detected as image", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "foto.png", pngHeader)
		assert.True(t, storage.IsImage(fh))
		assert.False(t, storage.IsVideo(fh))
	})

	t.Run("extension fallback for generic content", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "rutina.mp4", []byte{0x00, 0x01, 0x02, 0x03})
		assert.True(t, storage.IsVideo(fh))
	})

	t.Run("pdf by magic bytes", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "contrato.bin", []byte("%PDF-1.7\n"))
		assert.True(t, storage.IsPDF(fh))
	})

	t.Run("mime allowlist", func(t *testing.T) {
		t.Parallel()
		fh := createFileHeader(t, "foto.png", pngHeader)
		assert.NoError(t, storage.ValidateMIMEType(fh, "image/png", "image/jpeg"))
		assert.ErrorIs(t, storage.ValidateMIMEType(fh, "application/pdf"), storage.ErrMIMETypeNotAllowed)
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want string
	}{
		{"perfil.png", "perfil.png"},
		{"../../../etc/passwd", "passwd"},
		{"C:\\Windows\\file.txt", "file.txt"},
		{"..", "unnamed"},
		{"", "unnamed"},
	} {
		assert.Equal(t, tc.want, storage.SanitizeFilename(tc.in), tc.in)
	}
}
