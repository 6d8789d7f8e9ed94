package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/matrix"
)

// TemplateOptions holds flags for the template command.
type TemplateOptions struct {
	*RootOptions
	Force bool
}

// NewTemplateCommand creates the template command.
func NewTemplateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "template <path>",
		Short: "Write an empty transmittal template",
		Long: `Write a transmittal document with the title block, the Date and Issue
header rows and the Drawing No./Title column header. The format follows the
extension: .ods or .csv.

Example:
  revmatrix template ./drawings/Transmittal_Template.ods
  revmatrix template register.csv --force`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")
	return cmd
}

func runTemplate(opts *TemplateOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := matrix.CreateTemplate(path, opts.Force); err != nil {
		switch {
		case errors.Is(err, fs.ErrExist):
			return fail(out, ExitCommandError, CodeTemplateExists, "file exists (use --force to overwrite)", err, nil)
		case errors.Is(err, grid.ErrUnsupportedFormat):
			return fail(out, ExitCommandError, CodeDocument, "unsupported template format", err, nil)
		default:
			return fail(out, ExitCommandError, CodeDocument, "failed to write template", err, nil)
		}
	}

	if opts.Format == "json" {
		return out.Success(map[string]string{"path": path})
	}
	fmt.Fprintf(out.Writer, "Template written: %s\n", path)
	return nil
}
