package usage

import "errors"

var (
	ErrCounterUnavailable = errors.New("usage.errors.counter_unavailable")
	ErrInvalidAmount      = errors.New("usage.errors.invalid_amount")
)
