package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_FailedAssertionsAreReported(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_expectations",
		Description: "assertions that cannot hold",
		Files:       []string{"X-1_A.pdf", "X-1_B.pdf"},
		Steps:       []Step{{Action: ActionClean}},
		Assertions: []Assertion{
			{Type: AssertMoved, Files: []string{"X-1_B.pdf"}},
			{Type: AssertPresent, Files: []string{"X-1_A.pdf"}},
			{Type: AssertColumns, Labels: []string{"2024-01-01"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "assertion 0 (moved)")
	assert.Contains(t, result.Errors[1], "X-1_A.pdf: expected to exist")
	assert.Contains(t, result.Errors[2], "assertion 2 (columns)")
}

func TestRun_UnexpectedStepErrorStops(t *testing.T) {
	s := &Scenario{
		Name:        "unexpected_error",
		Description: "a sync with nothing to record",
		Files:       []string{"readme.pdf"},
		Steps: []Step{
			{Action: ActionSync, Date: "2024-01-01", Issue: "TP", Formats: "PDF", Create: true},
			{Action: ActionClean},
		},
		Assertions: []Assertion{{Type: AssertMoved}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, errNoRecognizedFiles, result.Steps[0].Error)
	assert.Contains(t, result.Errors[0], "step 1: unexpected error")
	assert.Contains(t, result.Report, "  error: no_recognized_files\n")
}

func TestRun_MissingExpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "missing_error",
		Description: "a clean that succeeds although it should not",
		Files:       []string{"X-1_A.pdf"},
		Steps:       []Step{{Action: ActionClean, ExpectError: errHoldingFolder}},
		Assertions:  []Assertion{{Type: AssertKept, Files: []string{"X-1_A.pdf"}}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error holding_folder")
}

func TestRun_HoldingFolderBlocked(t *testing.T) {
	s := &Scenario{
		Name:        "blocked_holding",
		Description: "a file named like the holding folder",
		Files:       []string{"X-1_A.pdf", "X-1_B.pdf", "Superceded"},
		Steps:       []Step{{Action: ActionClean, ExpectError: errHoldingFolder}},
		Assertions:  []Assertion{{Type: AssertPresent, Files: []string{"X-1_A.pdf", "X-1_B.pdf"}}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_BadPatternIsFatal(t *testing.T) {
	s := &Scenario{
		Name:        "bad_pattern",
		Description: "an uncompilable pattern",
		Steps:       []Step{{Action: ActionClean, Patterns: []string{"([A-Z"}}},
		Assertions:  []Assertion{{Type: AssertMoved}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
}

func TestRunIn_KeepsFolder(t *testing.T) {
	dir := t.TempDir()
	s := &Scenario{
		Name:        "keeps_folder",
		Description: "RunIn leaves the folder for inspection",
		Files:       []string{"X-1_A.pdf", "X-1_B.pdf"},
		Steps:       []Step{{Action: ActionClean}},
		Assertions:  []Assertion{{Type: AssertMoved, Files: []string{"X-1_A.pdf"}}},
	}

	result, err := RunIn(s, dir)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	paths, err := listTree(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Superceded/", "Superceded/X-1_A.pdf", "X-1_B.pdf"}, paths)
}

func TestRun_CleanWithoutDrawings(t *testing.T) {
	s := &Scenario{
		Name:        "clean_without_drawings",
		Description: "a folder with nothing to group",
		Files:       []string{"notes.txt"},
		Steps:       []Step{{Action: ActionClean, Extensions: []string{".txt"}, ExpectError: errNoRecognizedFiles}},
		Assertions: []Assertion{
			{Type: AssertUnrecognized, Files: []string{"notes.txt"}},
			{Type: AssertAbsent, Files: []string{"Superceded"}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, result.Report, "  unrecognized: notes.txt\n  error: no_recognized_files\n")
}
