package member

import "errors"

var (
	ErrNotFound     = errors.New("member.errors.not_found")
	ErrEmailTaken   = errors.New("member.errors.email_taken")
	ErrInvalidName  = errors.New("member.errors.invalid_name")
	ErrInvalidRole  = errors.New("member.errors.invalid_role")
	ErrStoreFailure = errors.New("member.errors.store_failure")
)
