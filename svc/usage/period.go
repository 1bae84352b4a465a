package usage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// Window identifies how a resource's usage counter resets.
type Window int

const (
	// WindowNone is a gauge that never resets (storage bytes).
	WindowNone Window = iota
	// WindowDaily resets at midnight UTC.
	WindowDaily
	// WindowMonthly resets on the first of the month, UTC.
	WindowMonthly
)

// windowFor returns the reset window for a period-scoped resource.
func windowFor(res quota.Resource) Window {
	switch res {
	case quota.ResourceAPIRequests:
		return WindowDaily
	case quota.ResourceWhatsApp, quota.ResourceEmails, quota.ResourceAIRequests:
		return WindowMonthly
	}
	return WindowNone
}

// counterKey builds the storage key for one organization, resource and period.
// The calendar period is part of the key, so a new window starts at zero
// without any explicit reset.
func counterKey(orgID uuid.UUID, res quota.Resource, now time.Time) string {
	now = now.UTC()
	switch windowFor(res) {
	case WindowDaily:
		return fmt.Sprintf("usage:%s:%s:%s", orgID, res, now.Format("2006-01-02"))
	case WindowMonthly:
		return fmt.Sprintf("usage:%s:%s:%s", orgID, res, now.Format("2006-01"))
	}
	return fmt.Sprintf("usage:%s:%s", orgID, res)
}

// keyTTL returns how long a counter key should live. Windows are encoded in
// the key itself, so the TTL only reclaims memory after the window closes.
func keyTTL(res quota.Resource) time.Duration {
	switch windowFor(res) {
	case WindowDaily:
		return 48 * time.Hour
	case WindowMonthly:
		return 40 * 24 * time.Hour
	}
	return 0
}
