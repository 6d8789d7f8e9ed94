// Package harness runs YAML scenarios against the real cleanup and matrix
// workflows.
//
// # Scenario Format
//
//	name: issue_workflow
//	description: "Clean a folder, then issue the survivors"
//	files:
//	  - TEST-001_A.pdf
//	  - TEST-001_B.pdf
//	documents:
//	  Existing.csv:
//	    - [Date, ""]
//	    - [Issue, ""]
//	steps:
//	  - action: clean
//	    holding_folder: Superceded
//	  - action: sync
//	    date: "2024-05-01"
//	    issue: TP
//	    formats: PDF, DWG
//	    create: true
//	  - action: sync
//	    add_files: [TEST-001_C.pdf]
//	    date: "2024-05-02"
//	    issue: REV
//	    formats: PDF
//	assertions:
//	  - type: moved
//	    files: [TEST-001_A.pdf]
//	  - type: revision
//	    drawing: TEST-001
//	    column: "2024-05-02"
//	    expect: C
//
// # Assertion Types
//
//   - moved: every file moved by clean steps, in any order
//   - kept: files kept by the last clean step, in any order
//   - unrecognized: files the last step could not identify
//   - present / absent: paths relative to the scenario folder
//   - columns: the issue column labels of a document, in order
//   - meta: the issue-row text under a column label
//   - revision: the revision recorded for a drawing under a column label
//
// # Deterministic Testing
//
// Each scenario runs in a fresh temporary folder. Sync steps read today's
// date from a fixed clock set to the step's date, so the report and the
// resulting matrix are identical on every run and can be compared with a
// golden file.
package harness
