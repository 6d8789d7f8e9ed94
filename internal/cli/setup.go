package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/revmatrix/internal/config"
	"github.com/roach88/revmatrix/internal/grid"
	"github.com/roach88/revmatrix/internal/ident"
	"github.com/roach88/revmatrix/internal/matrix"
	"github.com/roach88/revmatrix/internal/revision"
)

// session bundles what every workflow command needs: the loaded
// configuration, a logger on stderr and the output formatter.
type session struct {
	opts   *RootOptions
	cfg    *config.Config
	logger *slog.Logger
	out    *OutputFormatter
}

// newSession loads the configuration and builds the logger. Configuration
// errors are reported and returned as ExitCommandError.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		var details any
		var ve *config.ValidationError
		if errors.As(err, &ve) {
			details = ve.Details
		}
		return nil, fail(out, ExitCommandError, CodeConfig, "failed to load config", err, details)
	}

	return &session{
		opts:   opts,
		cfg:    cfg,
		logger: newLogger(cfg.Logging, opts.Verbose, cmd.ErrOrStderr()),
		out:    out,
	}, nil
}

// newLogger builds a text or JSON slog handler on w. --verbose forces debug.
func newLogger(lc config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := lc.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// fail writes an error through the formatter and returns it as an
// ExitError that main will not print again.
func fail(out *OutputFormatter, code int, errCode, message string, err error, details any) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = out.Error(errCode, text, details)
	return &ExitError{Code: code, Message: message, Err: err, reported: true}
}

// cleanFlags are the flag overrides shared by plan and clean.
type cleanFlags struct {
	Holding     string
	Prefix      string
	Patterns    []string
	CustomFirst bool
	Extensions  []string
	Only        []string
}

func (f *cleanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Holding, "holding", revision.DefaultHoldingFolder, "holding folder for superseded files")
	cmd.Flags().StringVar(&f.Prefix, "prefix", "", "only consider files starting with this prefix")
	cmd.Flags().StringArrayVar(&f.Patterns, "pattern", nil, "custom filename pattern (repeatable)")
	cmd.Flags().BoolVar(&f.CustomFirst, "custom-first", false, "try custom patterns before the built-in ones")
	cmd.Flags().StringSliceVar(&f.Extensions, "ext", nil, "file extensions to consider (default from config)")
	cmd.Flags().StringArrayVar(&f.Only, "only", nil, "restrict to this drawing base name (repeatable)")
}

// apply overlays the flags that were set on the command line.
func (f *cleanFlags) apply(cmd *cobra.Command, c *config.CleanupConfig) {
	flags := cmd.Flags()
	if flags.Changed("holding") {
		c.HoldingFolder = f.Holding
	}
	if flags.Changed("prefix") {
		c.PrefixFilter = f.Prefix
	}
	if flags.Changed("pattern") {
		c.Patterns = f.Patterns
	}
	if flags.Changed("custom-first") {
		c.CustomFirst = f.CustomFirst
	}
	if flags.Changed("ext") {
		c.Extensions = f.Extensions
	}
}

// planFolder builds the grouping matcher from the cleanup configuration
// and plans folder. A folder with no recognized drawing is a command error,
// reported before anything is moved.
func (s *session) planFolder(folder string, only []string) (*revision.Plan, error) {
	c := s.cfg.Cleanup
	sources := ident.Ordered(ident.GroupingPatterns, c.Patterns, c.CustomFirst)
	patterns, errs := ident.CompileAll(sources, s.logger)
	for _, err := range errs {
		s.out.VerboseLog("skipped pattern: %v", err)
	}
	m := ident.NewMatcher(patterns, s.logger)
	filter := ident.All(ident.ExtensionFilter(c.Extensions...), ident.PrefixFilter(c.PrefixFilter))

	plan, err := revision.PlanFolder(folder, m, filter)
	if errors.Is(err, revision.ErrNoRecognizedFiles) {
		if s.out.Format != "json" {
			writeSection(s.out.Writer, "Unrecognized", plan.Unrecognized)
		}
		return nil, fail(s.out, ExitCommandError, CodeNoDrawings, "no valid drawing files found", nil, plan.Unrecognized)
	}
	if err != nil {
		return nil, fail(s.out, ExitCommandError, CodeFolder, "failed to read folder", err, nil)
	}
	if len(only) > 0 {
		plan.Groups = revision.Select(plan.Groups, only)
	}
	return plan, nil
}

// synchronizer builds a Synchronizer from the matrix configuration.
func (s *session) synchronizer() (*matrix.Synchronizer, error) {
	c := s.cfg.Matrix
	m, errs := ident.NewMatcherFromSources(c.Patterns, s.logger)
	if len(m.Patterns()) == 0 {
		return nil, fail(s.out, ExitCommandError, CodePattern, "no usable filename pattern", errors.Join(errs...), nil)
	}
	return matrix.New(
		matrix.WithMatcher(m),
		matrix.WithExtensions(c.Extensions...),
		matrix.WithClock(s.opts.now),
		matrix.WithDateFormat(c.DateFormat),
		matrix.WithLogger(s.logger),
	), nil
}

// classifySyncError maps a synchronization failure to its exit and error
// codes.
func classifySyncError(err error) (int, string, string) {
	switch {
	case errors.Is(err, matrix.ErrNoDocument):
		return ExitCommandError, CodeNoDocument, "no transmittal document (use --create)"
	case grid.IsHeaderNotFound(err):
		return ExitCommandError, CodeHeaderNotFound, "transmittal document has no Date/Issue rows"
	case errors.Is(err, matrix.ErrNoRecognizedFiles):
		return ExitCommandError, CodeNoDrawings, "no valid drawing files found"
	default:
		return ExitCommandError, CodeDocument, "failed to update transmittal document"
	}
}
