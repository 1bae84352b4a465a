// Package usage supplies the counting collaborators the quota engine depends
// on: live row counters over the relational schema and period-scoped usage
// counters (monthly messages, daily API calls, the storage gauge) backed by
// Redis.
//
// The Redis store owns consumption atomicity: Consume is a single Lua
// compare-and-increment, so a counter can never be pushed past its ceiling by
// concurrent consumers even though separate check and consume calls may race.
// Period windows are encoded into the key (one key per organization, resource
// and calendar period) and expire shortly after the window closes.
package usage
