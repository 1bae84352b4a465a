package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Object describes one stored file.
type Object struct {
	Filename  string
	Size      int64
	MIMEType  string
	Extension string
	Path      string
}

// Storage is a backend for gym media files.
type Storage interface {
	// Save stores the uploaded file at key and returns its metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error)
	// Delete removes a single object.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under the prefix. Used when an
	// organization or member is removed.
	DeletePrefix(ctx context.Context, prefix string) error
	// Exists reports whether an object is present.
	Exists(ctx context.Context, key string) bool
	// URL returns the public URL for an object.
	URL(key string) string
}

// OrgKey builds the per-organization object key for a filename under a
// category such as "photos" or "waivers".
func OrgKey(orgID uuid.UUID, category, filename string) string {
	return path.Join(orgID.String(), category, SanitizeFilename(filename))
}

// OrgPrefix is the key prefix holding all of an organization's objects.
func OrgPrefix(orgID uuid.UUID) string {
	return orgID.String() + "/"
}

// Media types accepted for gym content. Member photos and class covers must
// be images; routine demonstrations may be video; waivers are PDFs.
var (
	imageMIMETypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
		"image/heic": true,
		"image/avif": true,
	}

	videoMIMETypes = map[string]bool{
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
		"video/3gpp":      true,
	}
)

// IsImage checks content-detected MIME type, falling back to the extension
// when detection returns a generic type.
func IsImage(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}

	mimeType, err := DetectMIMEType(fh)
	if err == nil && mimeType != "" && mimeType != "application/octet-stream" {
		return imageMIMETypes[mimeType]
	}

	switch strings.ToLower(Extension(fh)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".avif":
		return true
	default:
		return false
	}
}

// IsVideo checks content-detected MIME type with an extension fallback.
func IsVideo(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}

	mimeType, err := DetectMIMEType(fh)
	if err == nil && mimeType != "" && mimeType != "application/octet-stream" {
		return videoMIMETypes[mimeType]
	}

	switch strings.ToLower(Extension(fh)) {
	case ".mp4", ".webm", ".mov", ".3gp":
		return true
	default:
		return false
	}
}

// IsPDF reports whether the file is a PDF document.
func IsPDF(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}
	mimeType, err := DetectMIMEType(fh)
	if err == nil && mimeType == "application/pdf" {
		return true
	}
	return strings.ToLower(Extension(fh)) == ".pdf"
}

// Extension returns the file extension including the dot.
func Extension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return filepath.Ext(fh.Filename)
}

// DetectMIMEType sniffs the MIME type from content rather than trusting the
// extension. Resets the read position so the file can be saved afterwards.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads at most 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	return http.DetectContentType(buffer[:n]), nil
}

// ValidateMIMEType checks the detected MIME type against an allowlist. An
// empty allowlist accepts everything.
func ValidateMIMEType(fh *multipart.FileHeader, allowed ...string) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if len(allowed) == 0 {
		return nil
	}

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		return err
	}
	if slices.Contains(allowed, mimeType) {
		return nil
	}
	return fmt.Errorf("MIME type %s not in allowed types %v: %w", mimeType, allowed, ErrMIMETypeNotAllowed)
}

// SanitizeFilename strips path components and NUL bytes so attacker-supplied
// filenames cannot escape the object prefix.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}
	return filename
}

func validateKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return key, nil
}
