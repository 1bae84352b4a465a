package quota

// Tier identifies a subscription plan tier.
type Tier string

// Known subscription tiers, ordered from smallest to largest.
const (
	TierStarter    Tier = "starter"
	TierGrowth     Tier = "growth"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether the tier is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierStarter, TierGrowth, TierPro, TierEnterprise:
		return true
	}
	return false
}

// Resource represents a metered organization resource.
type Resource string

// Metered resources. The first five are counted as live rows; the rest are
// period-scoped counters or pure comparisons.
const (
	ResourceMembers   Resource = "members"
	ResourceUsers     Resource = "users" // system users: owner, admin, assistant, nutritionist
	ResourceTrainers  Resource = "trainers"
	ResourceLocations Resource = "locations"
	ResourceClasses   Resource = "classes"

	ResourceStorage     Resource = "storage_bytes"     // gauge, bytes
	ResourceAPIRequests Resource = "api_requests"      // per day
	ResourceWhatsApp    Resource = "whatsapp_messages" // per month
	ResourceEmails      Resource = "email_messages"    // per month
	ResourceAIRequests  Resource = "ai_requests"       // per month
	ResourceFileUpload  Resource = "file_upload_mb"    // per-file ceiling, megabytes
)

// Unlimited marks a resource with no ceiling.
const Unlimited int64 = -1

// Raw tier tables may encode "effectively unlimited" as a very large number
// instead of -1. Values at or above the resource's sentinel normalize to
// Unlimited when organization limits are resolved.
const (
	countedUnlimitedSentinel int64 = 999
	periodUnlimitedSentinel  int64 = 999999
)

// unlimitedSentinel returns the raw value treated as unlimited for res,
// or 0 when only -1 means unlimited.
func unlimitedSentinel(res Resource) int64 {
	switch res {
	case ResourceLocations, ResourceClasses, ResourceUsers, ResourceTrainers:
		return countedUnlimitedSentinel
	case ResourceAPIRequests, ResourceWhatsApp, ResourceEmails, ResourceAIRequests:
		return periodUnlimitedSentinel
	}
	return 0
}

// normalizeLimit collapses sentinel values to Unlimited.
func normalizeLimit(res Resource, limit int64) int64 {
	if limit == Unlimited {
		return Unlimited
	}
	if s := unlimitedSentinel(res); s > 0 && limit >= s {
		return Unlimited
	}
	return limit
}

// Feature is a plan-specific feature flag.
type Feature string

// Predefined feature flags for plans.
const (
	FeatureWhatsApp       Feature = "whatsapp"        // WhatsApp notifications
	FeatureAIAssistant    Feature = "ai_assistant"    // AI routine/diet suggestions
	FeatureAPIAccess      Feature = "api_access"      // Public API access
	FeatureCustomBranding Feature = "custom_branding" // White-label member portal
	FeatureMultiLocation  Feature = "multi_location"  // More than one gym location
)

// CheckResult is the outcome of a single limit check. It is constructed fresh
// per check and never persisted.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Current int64  `json:"current"`
	Limit   int64  `json:"limit"`
	Message string `json:"message,omitempty"`
}

// ConsumeResult is the outcome of delegated atomic consumption.
type ConsumeResult struct {
	Success   bool  `json:"success"`
	Remaining int64 `json:"remaining"`
}

// FeatureResult is the outcome of a feature-access check.
type FeatureResult struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// FileSizeResult is the outcome of a file-size check.
type FileSizeResult struct {
	Allowed   bool   `json:"allowed"`
	MaxSizeMB int64  `json:"max_size_mb"`
	Message   string `json:"message,omitempty"`
}

// UsageInfo pairs current usage with the resolved ceiling for one resource.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}
