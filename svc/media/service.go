package media

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/pkg/storage"
	"github.com/gymgo/gymgo/svc/quota"
)

// Service runs uploads through the plan checks: per-file size first, then the
// organization's storage allowance, then the backend write. The storage gauge
// is updated after a successful write, so concurrent uploads can overshoot a
// soft ceiling by at most the in-flight bytes.
type Service struct {
	store   Store
	backend storage.Storage
	quota   *quota.Engine
	log     *slog.Logger
}

// NewService creates the media service. Panics on nil collaborators.
func NewService(store Store, backend storage.Storage, engine *quota.Engine, log *slog.Logger) *Service {
	if store == nil {
		panic("media: store is required")
	}
	if backend == nil {
		panic("media: storage backend is required")
	}
	if engine == nil {
		panic("media: quota engine is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, backend: backend, quota: engine, log: log}
}

// Upload stores a file for the organization under the given category.
// Returns *FileSizeError or *quota.LimitError when the plan denies it.
func (s *Service) Upload(ctx context.Context, orgID uuid.UUID, category Category, fh *multipart.FileHeader) (*File, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if fh == nil {
		return nil, storage.ErrNilFileHeader
	}
	if !category.accepts(fh) {
		return nil, ErrInvalidContent
	}

	if res := s.quota.CheckFileSizeLimit(ctx, orgID, fh.Size); !res.Allowed {
		return nil, &FileSizeError{Result: res}
	}
	if res := s.quota.CheckStorageLimit(ctx, orgID); !res.Allowed {
		return nil, quota.NewLimitError(res)
	}

	key := storage.OrgKey(orgID, string(category), fh.Filename)
	obj, err := s.backend.Save(ctx, fh, key)
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}

	f := &File{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Category:       category,
		Filename:       obj.Filename,
		Path:           obj.Path,
		MIMEType:       obj.MIMEType,
		SizeBytes:      obj.Size,
	}
	if err := s.store.Create(ctx, f); err != nil {
		if delErr := s.backend.Delete(ctx, obj.Path); delErr != nil {
			s.log.WarnContext(ctx, "orphaned object after failed record insert",
				slog.String("path", obj.Path), slog.Any("error", delErr))
		}
		return nil, err
	}

	if res := s.quota.UpdateStorageUsage(ctx, orgID, obj.Size); !res.Success {
		s.log.WarnContext(ctx, "storage gauge update failed after upload",
			slog.String("org_id", orgID.String()),
			slog.Int64("bytes", obj.Size))
	}
	return f, nil
}

// Get returns one media record scoped to the organization.
func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*File, error) {
	return s.store.GetByID(ctx, orgID, id)
}

// List returns the organization's media records.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]File, error) {
	return s.store.ListByOrganization(ctx, orgID)
}

// URL returns the public URL for a stored file.
func (s *Service) URL(f *File) string {
	return s.backend.URL(f.Path)
}

// Delete removes a file and releases its bytes from the storage gauge.
// A missing backend object is tolerated; the record and the gauge are the
// source of truth.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	f, err := s.store.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}

	if err := s.backend.Delete(ctx, f.Path); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return errors.Join(ErrUploadFailed, err)
	}
	if err := s.store.Delete(ctx, orgID, id); err != nil {
		return err
	}

	if res := s.quota.UpdateStorageUsage(ctx, orgID, -f.SizeBytes); !res.Success {
		s.log.WarnContext(ctx, "storage gauge update failed after delete",
			slog.String("org_id", orgID.String()),
			slog.Int64("bytes", -f.SizeBytes))
	}
	return nil
}

// PurgeOrganization removes all of an organization's media. Used when the
// organization offboards.
func (s *Service) PurgeOrganization(ctx context.Context, orgID uuid.UUID) error {
	if err := s.backend.DeletePrefix(ctx, storage.OrgPrefix(orgID)); err != nil && !errors.Is(err, storage.ErrPrefixNotFound) {
		return errors.Join(ErrUploadFailed, err)
	}

	freed, err := s.store.DeleteByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	if freed > 0 {
		if res := s.quota.UpdateStorageUsage(ctx, orgID, -freed); !res.Success {
			s.log.WarnContext(ctx, "storage gauge update failed after purge",
				slog.String("org_id", orgID.String()),
				slog.Int64("bytes", -freed))
		}
	}
	return nil
}
