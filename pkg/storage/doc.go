// Package storage persists gym media: member photos, routine videos and
// signed waivers. Objects live under a per-organization prefix so one tenant's
// files never mix with another's, and the whole prefix can be purged when an
// organization offboards.
//
// Two backends implement Storage: S3 (and S3-compatible services) for
// production and the local filesystem for development. Paths are validated
// against traversal in both.
package storage
