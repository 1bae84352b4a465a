// Package api exposes the HTTP surface of the platform: organization
// management, member and staff rosters, plan usage reporting, media uploads
// and outbound notifications.
//
// All routes are JSON over a chi router and every response uses a single
// envelope shape. Plan-limit denials map to 403 and carry the engine's
// user-facing message verbatim so clients can render it without translation.
package api
