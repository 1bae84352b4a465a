package notification

import "errors"

var (
	ErrFeatureDisabled = errors.New("notification.errors.feature_disabled")
	ErrDeliveryFailed  = errors.New("notification.errors.delivery_failed")
	ErrInvalidMessage  = errors.New("notification.errors.invalid_message")
)

// FeatureError carries the plan's denial message for a disabled feature.
type FeatureError struct {
	Message string
}

func (e *FeatureError) Error() string { return e.Message }

func (e *FeatureError) Unwrap() error { return ErrFeatureDisabled }
