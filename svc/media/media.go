package media

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/pkg/storage"
)

// Category classifies an upload and determines which content types are
// accepted for it.
type Category string

const (
	CategoryPhoto   Category = "photos"  // Member and class photos
	CategoryVideo   Category = "videos"  // Routine demonstration videos
	CategoryWaiver  Category = "waivers" // Signed liability waivers (PDF)
	CategoryGeneric Category = "files"   // Anything else
)

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	switch c {
	case CategoryPhoto, CategoryVideo, CategoryWaiver, CategoryGeneric:
		return true
	}
	return false
}

// accepts validates the upload content against the category.
func (c Category) accepts(fh *multipart.FileHeader) bool {
	switch c {
	case CategoryPhoto:
		return storage.IsImage(fh)
	case CategoryVideo:
		return storage.IsVideo(fh)
	case CategoryWaiver:
		return storage.IsPDF(fh)
	default:
		return true
	}
}

// File is one stored media record.
type File struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Category       Category  `json:"category"`
	Filename       string    `json:"filename"`
	Path           string    `json:"path"`
	MIMEType       string    `json:"mime_type"`
	SizeBytes      int64     `json:"size_bytes"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store persists media records.
type Store interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*File, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]File, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// DeleteByOrganization removes every record for the organization and
	// returns the total bytes freed.
	DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
}
