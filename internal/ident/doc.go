// Package ident turns drawing filenames into structured identities.
//
// A filename is matched against an ordered list of regular expressions. The
// first pattern that matches wins, so callers control precedence by ordering
// built-in and custom patterns themselves (see Ordered).
//
// Each pattern captures, in order:
//
//  1. the base name shared by every revision of a drawing
//  2. a single-letter revision token (optional group)
//  3. the format extension (optional group)
//
// A pattern with a single group yields an identity without a revision token.
// A pattern with no groups, or one that fails to compile, is skipped with a
// warning and never aborts a run.
//
// Matching is case-insensitive and runs on the NFC form of the filename, so
// decomposed names reported by some filesystems group with their composed
// equivalents. Identity.Filename always keeps the name exactly as listed on
// disk.
package ident
