package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/matrix"
	"github.com/roach88/revmatrix/internal/testutil"
)

func TestSync_CreatesTemplate(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf", "TEST-002-B.dwg", "plan.pdf")

	out, _, err := execute(t, testOptions(), "sync", dir, "--issue", "tp", "--formats", "pdf, dwg", "--create")
	require.NoError(t, err)
	assertGolden(t, "sync_text", out)

	doc, err := grid.Load(filepath.Join(dir, matrix.DefaultTemplateName))
	require.NoError(t, err)
	g := doc.Grid()
	h, err := g.FindHeaderRows()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01"}, g.IssueColumns(h))
	assert.Equal(t, "TP (PDF, DWG)", g.Cell(h.Issue, 2))
}

func TestSync_SameDayReissue(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf", "TEST-002-B.dwg")

	_, _, err := execute(t, testOptions(), "sync", dir, "--issue", "TP", "--formats", "PDF, DWG", "--create")
	require.NoError(t, err)
	out, _, err := execute(t, testOptions(), "sync", dir, "--issue", "REV", "--formats", "PDF")
	require.NoError(t, err)

	assert.Contains(t, out, "Document: Transmittal_Template.ods (existing)\n")
	assert.Contains(t, out, "Issue: 2024-05-01 REV (PDF) in column 2 (existing)\n")
	assert.Contains(t, out, "Added (0):\nUpdated (2):\n  TEST-001 A\n  TEST-002 B\n")
}

func TestSync_MissingDocument(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf")

	out, _, err := execute(t, testOptions(), "sync", dir, "--issue", "TP", "--formats", "PDF")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, matrix.ErrNoDocument)
	assert.Contains(t, out, "Error [E006]")
}

func TestSync_HeaderNotFound(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf")
	doc := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(doc, []byte("Drawing No.,Title\n"), 0o644))

	out, _, err := execute(t, testOptions(), "--format", "json", "sync", dir, "--issue", "TP", "--formats", "PDF", "--doc", doc)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeHeaderNotFound, resp.Error.Code)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "Drawing No.,Title\n", string(data), "document left untouched")
}

func TestSync_NoDrawingsSavesNothing(t *testing.T) {
	dir := testutil.FixtureFolder(t, "readme.pdf")

	out, _, err := execute(t, testOptions(), "sync", dir, "--issue", "TP", "--formats", "PDF", "--create")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Unrecognized (1):\n  readme.pdf\n")
	assert.Contains(t, out, "Error [E007]")
	assert.NoFileExists(t, filepath.Join(dir, matrix.DefaultTemplateName))
}

func TestSync_RequiresIssueAndFormats(t *testing.T) {
	_, _, err := execute(t, testOptions(), "sync", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSync_CSVWithLedger(t *testing.T) {
	dir := testutil.FixtureFolder(t, "DWG-10_A.pdf", "DWG-10_B.pdf", "DWG-11_A.dxf")
	doc := filepath.Join(dir, "register.csv")
	db := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := execute(t, testOptions("run-sync-1"), "--format", "json",
		"sync", dir, "--issue", "FC", "--formats", "PDF", "--doc", doc, "--create", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   matrix.Report `json:"data"`
		RunID  string        `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-sync-1", resp.RunID)
	assert.Equal(t, map[string]string{"DWG-10": "B", "DWG-11": "A"}, resp.Data.Revisions())
	assert.True(t, resp.Data.DocumentCreated)

	history, _, err := execute(t, testOptions(), "history", "--db", db, "--run", "run-sync-1")
	require.NoError(t, err)
	assert.Contains(t, history, "added=2 unrecognized=0 updated=0")
	assert.Contains(t, history, "  added DWG-10 B  2024-05-01 FC (PDF)\n")
	assert.Contains(t, history, "  added DWG-11 A  2024-05-01 FC (PDF)\n")
}

func TestSync_DateFormatFromConfig(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf")
	cfg := writeConfigFile(t, t.TempDir(), "matrix:\n  date_format: \"02/01/2006\"\n")

	out, _, err := execute(t, testOptions(), "--config", cfg, "sync", dir, "--issue", "TP", "--formats", "PDF", "--create")
	require.NoError(t, err)
	assert.Contains(t, out, "Issue: 01/05/2024 TP (PDF) in column 2 (created)\n")
}

func TestSync_UnusableLedgerSavesNothing(t *testing.T) {
	dir := testutil.FixtureFolder(t, "TEST-001_A.pdf")
	db := filepath.Join(t.TempDir(), "missing", "runs.db")

	out, _, err := execute(t, testOptions(), "sync", dir, "--issue", "TP", "--formats", "PDF", "--create", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E009]: failed to open ledger")
	assert.NoFileExists(t, filepath.Join(dir, matrix.DefaultTemplateName))
}
