// Package store provides an SQLite-backed ledger of revmatrix runs.
//
// The ledger is an audit trail only. It records:
//   - Runs: one row per clean or sync invocation
//   - Moves: every kept, moved and failed file of a clean run
//   - Issue entries: every drawing row updated or added by a sync run
//
// Nothing in the cleanup or matrix workflows reads it back to make a
// decision; the folder and the matrix document remain the source of truth.
//
// # Ordering
//
// Child rows carry seq, their 1-based position within the run. All queries
// order by seq (and runs by started_at, id COLLATE BINARY) so history output
// is stable.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING on (run_id, seq); recording the same
// batch twice leaves a single copy.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
