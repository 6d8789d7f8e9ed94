package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revmatrix/internal/grid"
)

func TestTemplate_WritesAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Transmittal_Template.ods")

	out, _, err := execute(t, testOptions(), "template", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Template written: ")

	doc, err := grid.Load(path)
	require.NoError(t, err)
	_, err = doc.Grid().FindHeaderRows()
	require.NoError(t, err)

	out, _, err = execute(t, testOptions(), "template", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E011]")

	_, _, err = execute(t, testOptions(), "template", path, "--force")
	require.NoError(t, err)
}

func TestTemplate_UnsupportedExtension(t *testing.T) {
	out, _, err := execute(t, testOptions(), "template", filepath.Join(t.TempDir(), "matrix.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, grid.ErrUnsupportedFormat)
	assert.Contains(t, out, "Error [E008]")
}
