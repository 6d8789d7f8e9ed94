package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revmatrix/internal/store"
	"github.com/roach88/revmatrix/internal/testutil"
)

func TestHistory_MissingLedger(t *testing.T) {
	out, _, err := execute(t, testOptions(), "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "ledger not found")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(t, testOptions(), "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistory_JSON(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	drawings := filepath.Join(dir, "drawings")
	testutil.WriteFiles(t, drawings, "A-1_A.pdf", "A-1_B.pdf")

	_, _, err := execute(t, testOptions("run-1"), "clean", drawings, "--db", db)
	require.NoError(t, err)
	_, _, err = execute(t, testOptions("run-2"), "sync", drawings, "--issue", "TP", "--formats", "PDF", "--create", "--db", db)
	require.NoError(t, err)

	out, _, err := execute(t, testOptions(), "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []RunHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)

	// Same start time: ordered by ID.
	assert.Equal(t, "run-1", resp.Data[0].ID)
	assert.Equal(t, store.RunClean, resp.Data[0].Kind)
	require.Len(t, resp.Data[0].Moves, 2)
	assert.Equal(t, store.OutcomeKept, resp.Data[0].Moves[0].Outcome)
	assert.Equal(t, "A-1_B.pdf", resp.Data[0].Moves[0].Filename)
	assert.Equal(t, store.OutcomeMoved, resp.Data[0].Moves[1].Outcome)

	assert.Equal(t, "run-2", resp.Data[1].ID)
	require.Len(t, resp.Data[1].IssueEntries, 1)
	assert.Equal(t, "B", resp.Data[1].IssueEntries[0].Revision)
	assert.Equal(t, 1, resp.Data[1].Summary["added"])
}
