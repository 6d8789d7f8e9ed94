package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/revmatrix/internal/testutil"
)

// testOptions returns root options with a fixed clock and run IDs.
func testOptions(runIDs ...string) *RootOptions {
	return &RootOptions{
		Now:    testutil.NewFixedClock(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)).Now,
		RunIDs: testutil.NewFixedRunIDGenerator(runIDs...),
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := newRootCommand(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
