// Package member manages gym members and staff, enforcing plan ceilings
// through the quota engine before every insert. It is the reference
// check-then-act caller: check the relevant limit, perform the write, and let
// the row counters observe the new state.
package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// Member is a paying gym member. Members are unmetered as people but count
// against the plan's member ceiling.
type Member struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	FullName       string
	Email          string
	Phone          string
	JoinedAt       time.Time
	CreatedAt      time.Time
}

// Staff is a person working inside the organization: system users (owner,
// admin, assistant, nutritionist) or trainers (trainer, instructor).
type Staff struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	FullName       string
	Email          string
	Role           quota.Role
	CreatedAt      time.Time
}
