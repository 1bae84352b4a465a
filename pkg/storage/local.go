package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps media on the local filesystem, confined to baseDir.
// The development backend; production uses S3.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a filesystem backend rooted at baseDir. The
// directory is created if missing. baseURL prefixes public URLs, typically
// "/media/".
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(absBaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{baseDir: absBaseDir, baseURL: baseURL}, nil
}

// resolve maps an object key to an absolute path and rejects anything that
// would escape baseDir.
func (s *LocalStorage) resolve(key string) (string, error) {
	key, err := validateKey(key)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return abs, nil
}

// Save writes the upload to disk. A partial file left by a failed copy is
// removed.
func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, ErrNilFileHeader
	}

	absPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		mimeType = "application/octet-stream"
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	key, _ = validateKey(key)
	return &Object{
		Filename:  SanitizeFilename(fh.Filename),
		Size:      written,
		MIMEType:  mimeType,
		Extension: Extension(fh),
		Path:      key,
	}, nil
}

// Delete removes one file.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	absPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrFailedToDeleteObject, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, key)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteObject, err)
	}
	return nil
}

// DeletePrefix removes a directory tree under baseDir.
func (s *LocalStorage) DeletePrefix(ctx context.Context, prefix string) error {
	absPath, err := s.resolve(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPrefixNotFound, prefix)
		}
		return fmt.Errorf("%w: %v", ErrFailedToDeleteObject, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, prefix)
	}

	if err := os.RemoveAll(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteObject, err)
	}
	return nil
}

// Exists reports whether a file is present.
func (s *LocalStorage) Exists(ctx context.Context, key string) bool {
	absPath, err := s.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(absPath)
	return err == nil
}

// URL returns the public URL for an object key.
func (s *LocalStorage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}
