package organization

import "errors"

var (
	ErrNotFound     = errors.New("organization.errors.not_found")
	ErrSlugTaken    = errors.New("organization.errors.slug_taken")
	ErrInvalidTier  = errors.New("organization.errors.invalid_tier")
	ErrStoreFailure = errors.New("organization.errors.store_failure")
)
