// Package revision decides which revision of each drawing is authoritative
// and relocates the superseded ones.
//
// # Ordering
//
// Within a group of files sharing a base name:
//
//   - a file with an explicit revision token outranks any file without one,
//     whatever their modification times
//   - two revisioned files compare by token, A < B < C
//   - two unrevisioned files compare by filename
//
// The maximal member is kept; every other member is superseded. Files with
// the same token keep their first-seen order, so the last one listed wins.
// That case is flagged on the ResolvedGroup as Ambiguous.
//
// # Applying
//
// Apply moves superseded files into a holding folder next to them. The folder
// is matched case-insensitively and renamed to the canonical casing, or
// created. Each move is independent: a failed move is reported and the batch
// continues. Nothing is rolled back.
package revision
