// Package quota implements plan-limit enforcement for GymGo organizations.
// It decides whether an organization may add another metered resource (members,
// staff, locations, classes) or consume another unit of a period-scoped quota
// (WhatsApp messages, emails, AI requests, API calls, storage).
//
// The engine is pure decision logic: it never counts or increments anything
// itself. Current usage comes from injected collaborators (row counters and a
// usage store), and atomic consumption is delegated to the usage store. Every
// check is a stateless read; two checks without an intervening consume return
// identical results.
//
// Key concepts:
//
//   - Tier: subscription tier (starter, growth, pro, enterprise) with default
//     ceilings per Resource and a default feature set
//   - OrganizationLimits: per-organization resolved ceilings, where explicit
//     organization overrides win over tier defaults
//   - CheckResult: allow/deny outcome with a ready-to-display message
//   - CounterFunc: counts live rows for a resource (role-filtered for staff)
//   - UsageStore: period-scoped counters owning increment atomicity
//
// All check and consume methods are total: they return a denying result on
// collaborator failure instead of propagating an error. Billing-relevant
// resources fail closed; the single fail-open case is an unprovisioned usage
// counter, which reads as zero usage.
//
// Basic usage:
//
//	engine, err := quota.NewEngine(ctx, quota.DefaultSource(), orgs, counters, usage)
//	if err != nil {
//	    return err
//	}
//
//	res := engine.CheckMemberLimit(ctx, orgID)
//	if !res.Allowed {
//	    return errors.New(res.Message)
//	}
//	// create the member, then consume nothing: row counters see the insert
package quota
