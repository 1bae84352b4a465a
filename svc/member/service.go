package member

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/svc/quota"
)

// Store persists members and staff.
type Store interface {
	CreateMember(ctx context.Context, m *Member) error
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error)
	DeleteMember(ctx context.Context, orgID, id uuid.UUID) error

	CreateStaff(ctx context.Context, s *Staff) error
	ListStaff(ctx context.Context, orgID uuid.UUID) ([]Staff, error)
	DeleteStaff(ctx context.Context, orgID, id uuid.UUID) error
}

// Service wraps the store with plan-limit enforcement. Callers never write a
// member or staff row without passing the matching quota check first.
type Service struct {
	store Store
	quota *quota.Engine
	log   *slog.Logger
}

// NewService creates a member service.
func NewService(store Store, engine *quota.Engine, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, quota: engine, log: log}
}

// AddMemberInput is the form payload for registering a member.
type AddMemberInput struct {
	FullName string
	Email    string
	Phone    string
	JoinedAt time.Time
}

// AddMember registers a new gym member after checking the member ceiling.
// Returns *quota.LimitError when the plan is full; the error message is ready
// for the UI.
func (s *Service) AddMember(ctx context.Context, orgID uuid.UUID, in AddMemberInput) (*Member, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, ErrInvalidName
	}

	if res := s.quota.CheckMemberLimit(ctx, orgID); !res.Allowed {
		s.log.InfoContext(ctx, "member registration denied by plan limit",
			slog.String("org_id", orgID.String()),
			slog.Int64("current", res.Current), slog.Int64("limit", res.Limit))
		return nil, quota.NewLimitError(res)
	}

	m := &Member{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FullName:       name,
		Email:          strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		JoinedAt:       in.JoinedAt,
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	if err := s.store.CreateMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns all members of the organization.
func (s *Service) ListMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	return s.store.ListMembers(ctx, orgID)
}

// RemoveMember deletes a member. No quota interaction: row counters observe
// the deletion on the next check.
func (s *Service) RemoveMember(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.DeleteMember(ctx, orgID, id)
}

// AddStaffInput is the form payload for adding a staff account.
type AddStaffInput struct {
	FullName string
	Email    string
	Role     quota.Role
}

// AddStaff adds a staff account after checking the ceiling metering its role.
// Trainer roles meter against the trainer ceiling, system roles against the
// system-user ceiling; unknown roles are rejected rather than left unmetered.
func (s *Service) AddStaff(ctx context.Context, orgID uuid.UUID, in AddStaffInput) (*Staff, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, ErrInvalidName
	}
	if !in.Role.IsSystem() && !in.Role.IsTrainer() {
		return nil, ErrInvalidRole
	}

	if res := s.quota.CheckRoleLimit(ctx, orgID, in.Role); !res.Allowed {
		s.log.InfoContext(ctx, "staff creation denied by plan limit",
			slog.String("org_id", orgID.String()), slog.String("role", string(in.Role)),
			slog.Int64("current", res.Current), slog.Int64("limit", res.Limit))
		return nil, quota.NewLimitError(res)
	}

	st := &Staff{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FullName:       name,
		Email:          strings.TrimSpace(strings.ToLower(in.Email)),
		Role:           in.Role,
	}
	if err := s.store.CreateStaff(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ListStaff returns all staff accounts of the organization.
func (s *Service) ListStaff(ctx context.Context, orgID uuid.UUID) ([]Staff, error) {
	return s.store.ListStaff(ctx, orgID)
}

// RemoveStaff deletes a staff account.
func (s *Service) RemoveStaff(ctx context.Context, orgID, id uuid.UUID) error {
	return s.store.DeleteStaff(ctx, orgID, id)
}
