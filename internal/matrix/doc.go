// Package matrix keeps a transmittal matrix in step with a folder of issued
// drawings.
//
// A synchronization pass scans the folder with the strict matrix patterns
// (base name, revision letter and format all required), keeps the highest
// revision letter per drawing, finds or creates the issue column for today's
// date and writes each revision into that column, adding rows for drawings
// the matrix does not list yet.
//
// The pass only ever writes into the current issue's column, so a revision
// recorded for an earlier issue is never touched.
package matrix
