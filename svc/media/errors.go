package media

import (
	"errors"

	"github.com/gymgo/gymgo/svc/quota"
)

var (
	ErrNotFound        = errors.New("media.errors.not_found")
	ErrInvalidCategory = errors.New("media.errors.invalid_category")
	ErrInvalidContent  = errors.New("media.errors.invalid_content")
	ErrStoreFailure    = errors.New("media.errors.store_failure")
	ErrUploadFailed    = errors.New("media.errors.upload_failed")
)

// FileSizeError carries the plan's denial for an oversized upload. It matches
// errors.Is(err, quota.ErrLimitExceeded) like the other quota denials.
type FileSizeError struct {
	Result quota.FileSizeResult
}

func (e *FileSizeError) Error() string { return e.Result.Message }

func (e *FileSizeError) Unwrap() error { return quota.ErrLimitExceeded }
