package quota

import "errors"

// Domain errors for quota operations.
var (
	// Catalog errors
	ErrFailedToLoadCatalog      = errors.New("quota.errors.failed_to_load_catalog")
	ErrIncompleteCatalog        = errors.New("quota.errors.incomplete_catalog")
	ErrInvalidPlanConfiguration = errors.New("quota.errors.invalid_plan_configuration")
	ErrUnknownTier              = errors.New("quota.errors.unknown_tier")

	// Resolution errors
	ErrOrganizationNotFound = errors.New("quota.errors.organization_not_found")
	ErrNoCounterRegistered  = errors.New("quota.errors.no_counter_registered")
	ErrNoUsageStore         = errors.New("quota.errors.no_usage_store")

	// Collaborator errors
	ErrFailedToCountUsage = errors.New("quota.errors.failed_to_count_usage")
	ErrFailedToConsume    = errors.New("quota.errors.failed_to_consume")
)

// ErrLimitExceeded marks errors produced from a denying CheckResult so
// callers can match them with errors.Is.
var ErrLimitExceeded = errors.New("quota.errors.limit_exceeded")

// LimitError carries a denying check result across service boundaries.
// Error() returns the user-facing message, ready to surface in a response.
type LimitError struct {
	Result CheckResult
}

// NewLimitError wraps a denying check result. Panics if the result allows.
func NewLimitError(res CheckResult) *LimitError {
	if res.Allowed {
		panic("quota: NewLimitError called with an allowing result")
	}
	return &LimitError{Result: res}
}

func (e *LimitError) Error() string {
	if e.Result.Message != "" {
		return e.Result.Message
	}
	return ErrLimitExceeded.Error()
}

// Unwrap lets errors.Is(err, ErrLimitExceeded) match.
func (e *LimitError) Unwrap() error { return ErrLimitExceeded }
