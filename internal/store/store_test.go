package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type seqGen struct{ ids []string }

func (g *seqGen) Generate() string {
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id
}

var day = time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC)

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}

func TestRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := NewRun(&seqGen{ids: []string{"run-1"}}, RunClean, "/drawings", day)
	require.NoError(t, s.BeginRun(ctx, run))
	require.NoError(t, s.FinishRun(ctx, run.ID, map[string]int{"moved": 1, "kept": 3, "failed": 0}))

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, RunClean, got.Kind)
	assert.Equal(t, "/drawings", got.Folder)
	assert.True(t, day.Equal(got.StartedAt))
	assert.Equal(t, map[string]int{"moved": 1, "kept": 3, "failed": 0}, got.Summary)
}

func TestReadRun_NotFound(t *testing.T) {
	_, err := createTestStore(t).ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFinishRun_UnknownRun(t *testing.T) {
	err := createTestStore(t).FinishRun(context.Background(), "nope", nil)
	assert.ErrorContains(t, err, "unknown run")
}

func TestBeginRun_DuplicateIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", Kind: RunSync, Folder: "/a", StartedAt: day}
	require.NoError(t, s.BeginRun(ctx, run))
	run.Folder = "/b"
	require.NoError(t, s.BeginRun(ctx, run))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "/a", runs[0].Folder)
	assert.Equal(t, map[string]int{}, runs[0].Summary)
}

func TestBeginRun_RejectsUnknownKind(t *testing.T) {
	err := createTestStore(t).BeginRun(context.Background(), Run{ID: "x", Kind: "purge", StartedAt: day})
	assert.Error(t, err)
}

func TestListRuns_OrderedAndEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	require.NoError(t, s.BeginRun(ctx, Run{ID: "b", Kind: RunSync, Folder: "/f", StartedAt: day.Add(time.Hour)}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "c", Kind: RunClean, Folder: "/f", StartedAt: day}))
	require.NoError(t, s.BeginRun(ctx, Run{ID: "a", Kind: RunClean, Folder: "/f", StartedAt: day}))

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestRecordMoves(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Kind: RunClean, Folder: "/f", StartedAt: day}))

	moves := []Move{
		{BaseName: "TEST-001", Filename: "TEST-001_A.pdf", Outcome: OutcomeMoved},
		{BaseName: "TEST-001", Filename: "TEST-001_B.pdf", Outcome: OutcomeKept},
		{BaseName: "TEST-002", Filename: "TEST-002_A.pdf", Outcome: OutcomeFailed, Detail: "destination_exists"},
	}
	require.NoError(t, s.RecordMoves(ctx, "run-1", moves))
	// Recording the same batch again is a no-op.
	require.NoError(t, s.RecordMoves(ctx, "run-1", moves))

	got, err := s.ReadMoves(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, m := range got {
		assert.Equal(t, "run-1", m.RunID)
		assert.Equal(t, int64(i+1), m.Seq)
		assert.Equal(t, moves[i].Filename, m.Filename)
		assert.Equal(t, moves[i].Outcome, m.Outcome)
	}
	assert.Equal(t, "destination_exists", got[2].Detail)

	empty, err := s.ReadMoves(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecordMoves_RequiresRun(t *testing.T) {
	err := createTestStore(t).RecordMoves(context.Background(), "ghost", []Move{
		{BaseName: "A", Filename: "A_A.pdf", Outcome: OutcomeKept},
	})
	assert.Error(t, err)
}

func TestRecordIssue(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Kind: RunSync, Folder: "/f", StartedAt: day}))

	entries := []IssueEntry{
		{IssueLabel: "2024-05-01", IssueMeta: "TP (PDF, DWG)", BaseName: "TEST-001", Revision: "A", Action: "added"},
		{IssueLabel: "2024-05-01", IssueMeta: "TP (PDF, DWG)", BaseName: "TEST-002", Revision: "B", Action: "updated"},
	}
	require.NoError(t, s.RecordIssue(ctx, "run-1", entries))

	got, err := s.ReadIssueEntries(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TEST-001", got[0].BaseName)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, "updated", got[1].Action)
	assert.Equal(t, "TP (PDF, DWG)", got[1].IssueMeta)
}

func TestRecordIssue_RejectsUnknownAction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, Run{ID: "run-1", Kind: RunSync, Folder: "/f", StartedAt: day}))

	err := s.RecordIssue(ctx, "run-1", []IssueEntry{{IssueLabel: "d", IssueMeta: "m", BaseName: "A", Revision: "A", Action: "removed"}})
	assert.Error(t, err)

	got, err := s.ReadIssueEntries(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got, "failed batch is rolled back")
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.NotEqual(t, a, b)
	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestNewRun(t *testing.T) {
	local := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	run := NewRun(&seqGen{ids: []string{"r"}}, RunSync, "/f", local)

	assert.Equal(t, "r", run.ID)
	assert.Equal(t, time.UTC, run.StartedAt.Location())
	assert.NotNil(t, run.Summary)
}
