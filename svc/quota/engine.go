package quota

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/google/uuid"
)

// OrganizationLimits holds the resolved ceilings and feature set for one
// organization: explicit organization overrides applied on top of tier
// defaults, with unlimited sentinels normalized to Unlimited.
type OrganizationLimits struct {
	Tier     Tier
	Limits   map[Resource]int64
	Features map[Feature]bool
}

// LimitFor returns the resolved ceiling for res.
func (l *OrganizationLimits) LimitFor(res Resource) int64 {
	limit, ok := l.Limits[res]
	if !ok {
		return 0
	}
	return limit
}

// HasFeature reports whether the feature is enabled for the organization.
func (l *OrganizationLimits) HasFeature(f Feature) bool {
	return l.Features[f]
}

// Engine decides whether a requested increment of a metered resource is
// allowed for an organization. It holds no mutable state: the plan catalog is
// immutable after construction and all usage comes from collaborators, so the
// engine is safe for concurrent use.
type Engine struct {
	plans    map[Tier]PlanLimits
	orgs     OrganizationSource
	counters CounterRegistry
	usage    UsageStore
	log      *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger supplies a structured logger for collaborator failures.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an Engine from a plan catalog source and the usage
// collaborators. The catalog is loaded once and validated for completeness.
func NewEngine(ctx context.Context, src Source, orgs OrganizationSource, counters CounterRegistry, usage UsageStore, opts ...Option) (*Engine, error) {
	if src == nil {
		src = DefaultSource()
	}
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	if err := validateCatalog(plans); err != nil {
		return nil, err
	}
	if counters == nil {
		counters = NewRegistry()
	}

	e := &Engine{
		plans:    plans,
		orgs:     orgs,
		counters: counters,
		usage:    usage,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// OrganizationLimits resolves the effective limits for an organization.
// Returns ErrOrganizationNotFound when the organization does not exist;
// callers must treat that as a hard deny rather than an internal error.
func (e *Engine) OrganizationLimits(ctx context.Context, orgID uuid.UUID) (*OrganizationLimits, error) {
	org, err := e.orgs.OrgPlan(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	tier := org.Tier
	plan, ok := e.plans[tier]
	if !ok {
		// Unknown tier degrades to the smallest plan instead of blocking the
		// whole organization.
		tier = TierStarter
		plan = e.plans[tier]
	}

	limits := make(map[Resource]int64, len(plan.Limits))
	for res, limit := range plan.Limits {
		if override, ok := org.Overrides[res]; ok {
			limit = override
		}
		limits[res] = normalizeLimit(res, limit)
	}

	features := maps.Clone(plan.Features)
	if features == nil {
		features = make(map[Feature]bool)
	}
	maps.Copy(features, org.Features)

	return &OrganizationLimits{Tier: tier, Limits: limits, Features: features}, nil
}

// CheckMemberLimit reports whether the organization may register another member.
func (e *Engine) CheckMemberLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkCounted(ctx, orgID, ResourceMembers)
}

// CheckUserLimit reports whether the organization may add another system user
// (owner, admin, assistant, nutritionist).
func (e *Engine) CheckUserLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkCounted(ctx, orgID, ResourceUsers)
}

// CheckTrainerLimit reports whether the organization may add another trainer
// or instructor.
func (e *Engine) CheckTrainerLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkCounted(ctx, orgID, ResourceTrainers)
}

// CheckLocationLimit reports whether the organization may open another location.
func (e *Engine) CheckLocationLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkCounted(ctx, orgID, ResourceLocations)
}

// CheckClassLimit reports whether the organization may schedule another class.
func (e *Engine) CheckClassLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkCounted(ctx, orgID, ResourceClasses)
}

// CheckRoleLimit routes to the ceiling metering the given role: trainer roles
// go to the trainer check, system roles to the user check, and anything else
// (members, clients) is unmetered.
func (e *Engine) CheckRoleLimit(ctx context.Context, orgID uuid.UUID, role Role) CheckResult {
	switch {
	case role.IsTrainer():
		return e.CheckTrainerLimit(ctx, orgID)
	case role.IsSystem():
		return e.CheckUserLimit(ctx, orgID)
	}
	return CheckResult{Allowed: true, Limit: Unlimited}
}

// CheckFeatureAccess reports whether the organization's plan includes the
// feature. Tier defaults are consulted first, then the organization's own
// feature override map.
func (e *Engine) CheckFeatureAccess(ctx context.Context, orgID uuid.UUID, feature Feature) FeatureResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return FeatureResult{Allowed: false, Message: e.resolveFailureMessage(ctx, orgID, err)}
	}
	if !lims.HasFeature(feature) {
		return FeatureResult{Allowed: false, Message: msgFeatureNotIncluded}
	}
	return FeatureResult{Allowed: true}
}

// CheckWhatsAppLimit reports whether the organization may send another
// WhatsApp message this month.
func (e *Engine) CheckWhatsAppLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkPeriod(ctx, orgID, ResourceWhatsApp)
}

// CheckEmailLimit reports whether the organization may send another email this month.
func (e *Engine) CheckEmailLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkPeriod(ctx, orgID, ResourceEmails)
}

// CheckAILimit reports whether the organization may issue another AI request this month.
func (e *Engine) CheckAILimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkPeriod(ctx, orgID, ResourceAIRequests)
}

// CheckAPIRateLimit reports whether the organization may issue another API
// request today.
func (e *Engine) CheckAPIRateLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	return e.checkPeriod(ctx, orgID, ResourceAPIRequests)
}

// CheckStorageLimit reports whether the organization is below its storage ceiling.
func (e *Engine) CheckStorageLimit(ctx context.Context, orgID uuid.UUID) CheckResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return e.denyUnresolved(ctx, orgID, err)
	}
	limit := lims.LimitFor(ResourceStorage)
	if limit == Unlimited {
		return CheckResult{Allowed: true, Limit: Unlimited}
	}
	used, err := e.used(ctx, orgID, ResourceStorage)
	if err != nil {
		return e.denyUsageFailure(ctx, orgID, ResourceStorage, err)
	}
	if used >= limit {
		return CheckResult{Allowed: false, Current: used, Limit: limit, Message: storageLimitMessage(limit)}
	}
	return CheckResult{Allowed: true, Current: used, Limit: limit}
}

// CheckFileSizeLimit reports whether a single file of sizeBytes fits the
// plan's per-file upload ceiling. Pure comparison, no counting.
func (e *Engine) CheckFileSizeLimit(ctx context.Context, orgID uuid.UUID, sizeBytes int64) FileSizeResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return FileSizeResult{Allowed: false, Message: e.resolveFailureMessage(ctx, orgID, err)}
	}
	maxMB := lims.LimitFor(ResourceFileUpload)
	if maxMB == Unlimited {
		return FileSizeResult{Allowed: true, MaxSizeMB: Unlimited}
	}
	if sizeBytes > maxMB*(1<<20) {
		return FileSizeResult{Allowed: false, MaxSizeMB: maxMB, Message: fileTooLargeMessage(maxMB)}
	}
	return FileSizeResult{Allowed: true, MaxSizeMB: maxMB}
}

// ConsumeWhatsAppMessage records one sent WhatsApp message.
func (e *Engine) ConsumeWhatsAppMessage(ctx context.Context, orgID uuid.UUID) ConsumeResult {
	return e.consume(ctx, orgID, ResourceWhatsApp, 1)
}

// ConsumeEmail records one sent email.
func (e *Engine) ConsumeEmail(ctx context.Context, orgID uuid.UUID) ConsumeResult {
	return e.consume(ctx, orgID, ResourceEmails, 1)
}

// ConsumeAPIRequest records one API request against today's window.
func (e *Engine) ConsumeAPIRequest(ctx context.Context, orgID uuid.UUID) ConsumeResult {
	return e.consume(ctx, orgID, ResourceAPIRequests, 1)
}

// ConsumeAIRequest records one AI request.
func (e *Engine) ConsumeAIRequest(ctx context.Context, orgID uuid.UUID) ConsumeResult {
	return e.consume(ctx, orgID, ResourceAIRequests, 1)
}

// UpdateStorageUsage adjusts the storage gauge by delta bytes (negative on
// delete) and returns the bytes remaining under the ceiling.
func (e *Engine) UpdateStorageUsage(ctx context.Context, orgID uuid.UUID, delta int64) ConsumeResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		e.log.WarnContext(ctx, "storage update failed: limits unresolved",
			slog.String("org_id", orgID.String()), slog.Any("error", err))
		return ConsumeResult{}
	}
	if e.usage == nil {
		return ConsumeResult{}
	}
	total, err := e.usage.AddStorage(ctx, orgID, delta)
	if err != nil {
		e.log.WarnContext(ctx, "storage update failed",
			slog.String("org_id", orgID.String()), slog.Any("error", err))
		return ConsumeResult{}
	}

	limit := lims.LimitFor(ResourceStorage)
	if limit == Unlimited {
		return ConsumeResult{Success: true, Remaining: Unlimited}
	}
	return ConsumeResult{Success: true, Remaining: max(limit-total, 0)}
}

// UsageSummary returns current usage against the resolved ceiling for every
// countable resource. Individual counter failures leave that entry at zero
// rather than failing the whole summary; this feeds dashboards, not billing.
func (e *Engine) UsageSummary(ctx context.Context, orgID uuid.UUID) (map[Resource]UsageInfo, error) {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := make(map[Resource]UsageInfo, len(lims.Limits))
	for res, limit := range lims.Limits {
		info := UsageInfo{Limit: limit}
		if current, err := e.currentUsage(ctx, orgID, res); err == nil {
			info.Current = current
		}
		out[res] = info
	}
	return out, nil
}

// checkCounted runs the shared check for row-counted resources. The unlimited
// short-circuit returns before any counter call: usage is irrelevant when
// there is no ceiling.
func (e *Engine) checkCounted(ctx context.Context, orgID uuid.UUID, res Resource) CheckResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return e.denyUnresolved(ctx, orgID, err)
	}
	limit := lims.LimitFor(res)
	if limit == Unlimited {
		return CheckResult{Allowed: true, Limit: Unlimited}
	}

	counter, ok := e.counters[res]
	if !ok {
		return e.denyUsageFailure(ctx, orgID, res, ErrNoCounterRegistered)
	}
	current, err := counter(ctx, orgID)
	if err != nil {
		return e.denyUsageFailure(ctx, orgID, res, errors.Join(ErrFailedToCountUsage, err))
	}

	if current >= limit {
		return CheckResult{Allowed: false, Current: current, Limit: limit, Message: limitReachedMessage(res, limit)}
	}
	return CheckResult{Allowed: true, Current: current, Limit: limit}
}

// checkPeriod runs the shared check for period-scoped resources.
func (e *Engine) checkPeriod(ctx context.Context, orgID uuid.UUID, res Resource) CheckResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		return e.denyUnresolved(ctx, orgID, err)
	}
	limit := lims.LimitFor(res)
	if limit == Unlimited {
		return CheckResult{Allowed: true, Limit: Unlimited}
	}

	used, err := e.used(ctx, orgID, res)
	if err != nil {
		return e.denyUsageFailure(ctx, orgID, res, err)
	}

	if used >= limit {
		return CheckResult{Allowed: false, Current: used, Limit: limit, Message: limitReachedMessage(res, limit)}
	}
	return CheckResult{Allowed: true, Current: used, Limit: limit}
}

// consume delegates one atomic increment to the usage store. Both the store
// error path and the unresolved-limits path fail closed: billing counters must
// never silently accept unverified consumption.
func (e *Engine) consume(ctx context.Context, orgID uuid.UUID, res Resource, n int64) ConsumeResult {
	lims, err := e.OrganizationLimits(ctx, orgID)
	if err != nil {
		e.log.WarnContext(ctx, "consume failed: limits unresolved",
			slog.String("org_id", orgID.String()), slog.String("resource", string(res)), slog.Any("error", err))
		return ConsumeResult{}
	}
	if e.usage == nil {
		return ConsumeResult{}
	}

	applied, remaining, err := e.usage.Consume(ctx, orgID, res, n, lims.LimitFor(res))
	if err != nil {
		e.log.WarnContext(ctx, "consume failed",
			slog.String("org_id", orgID.String()), slog.String("resource", string(res)),
			slog.Any("error", errors.Join(ErrFailedToConsume, err)))
		return ConsumeResult{}
	}
	return ConsumeResult{Success: applied, Remaining: remaining}
}

func (e *Engine) used(ctx context.Context, orgID uuid.UUID, res Resource) (int64, error) {
	if e.usage == nil {
		return 0, ErrNoUsageStore
	}
	return e.usage.Used(ctx, orgID, res)
}

// currentUsage picks the right usage source for a resource.
func (e *Engine) currentUsage(ctx context.Context, orgID uuid.UUID, res Resource) (int64, error) {
	if counter, ok := e.counters[res]; ok {
		return counter(ctx, orgID)
	}
	switch res {
	case ResourceStorage, ResourceAPIRequests, ResourceWhatsApp, ResourceEmails, ResourceAIRequests:
		return e.used(ctx, orgID, res)
	}
	return 0, nil
}

// denyUnresolved maps a limit-resolution failure onto a denying result.
// A missing organization is a hard deny with its own message; anything else is
// a generic verification failure (fail closed).
func (e *Engine) denyUnresolved(ctx context.Context, orgID uuid.UUID, err error) CheckResult {
	return CheckResult{Allowed: false, Message: e.resolveFailureMessage(ctx, orgID, err)}
}

func (e *Engine) resolveFailureMessage(ctx context.Context, orgID uuid.UUID, err error) string {
	if errors.Is(err, ErrOrganizationNotFound) {
		return msgOrganizationNotFound
	}
	e.log.WarnContext(ctx, "limit resolution failed",
		slog.String("org_id", orgID.String()), slog.Any("error", err))
	return msgVerificationFailed
}

func (e *Engine) denyUsageFailure(ctx context.Context, orgID uuid.UUID, res Resource, err error) CheckResult {
	e.log.WarnContext(ctx, "usage lookup failed",
		slog.String("org_id", orgID.String()), slog.String("resource", string(res)), slog.Any("error", err))
	return CheckResult{Allowed: false, Message: msgVerificationFailed}
}
