// Package media manages an organization's uploaded files: member photos,
// routine videos and signed waivers. Uploads pass the plan's file-size and
// storage checks before touching the backend, and the storage gauge is kept
// in sync on every upload and delete.
package media
