package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/revision"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	cleanFlags
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <folder>",
		Short: "Show which revisions would be kept and superseded",
		Long: `Group the drawings of a folder by base name and show, for each group,
the revision that would be kept and the ones that would be moved to the
holding folder. Nothing is moved.

Example:
  revmatrix plan ./drawings
  revmatrix plan ./drawings --pattern '^(\w+)-rev([A-Z])\.pdf$' --custom-first`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	opts.register(cmd)
	return cmd
}

func runPlan(opts *PlanOptions, folder string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	opts.apply(cmd, &s.cfg.Cleanup)

	plan, err := s.planFolder(folder, opts.Only)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return s.out.Success(plan)
	}
	writePlanText(cmd.OutOrStdout(), plan)
	return nil
}

func writePlanText(w io.Writer, plan *revision.Plan) {
	for _, g := range plan.Groups {
		fmt.Fprintf(w, "%s: keep %s", g.BaseName, g.Keep.Filename)
		if g.Ambiguous {
			fmt.Fprint(w, " (ambiguous: equal revisions)")
		}
		fmt.Fprintln(w)
		for _, m := range g.Supersede {
			fmt.Fprintf(w, "  supersede %s\n", m.Filename)
		}
	}
	writeSection(w, "Unrecognized", plan.Unrecognized)
	fmt.Fprintf(w, "Summary: %d groups, %d to move\n", len(plan.Groups), revision.SupersedeCount(plan.Groups))
}

// writeSection prints a titled, counted list.
func writeSection(w io.Writer, title string, items []string) {
	fmt.Fprintf(w, "%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}
