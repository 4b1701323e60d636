package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// SummarizeOptions holds flags for the summarize command.
type SummarizeOptions struct {
	*RootOptions
	Suite      string
	ConfigPath string
}

// SummarizeResult is the output of summarize.
type SummarizeResult struct {
	Suite        string              `json:"suite"`
	Assertions   int                 `json:"assertions"`
	Requirements []RequirementResult `json:"requirements"`
}

// NewSummarizeCommand creates the summarize command.
func NewSummarizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummarizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summarize <log-file>",
		Short: "Print per-class tallies without writing a report",
		Long: `Walk a CTL execution log and print the tally of every conformance class.

No report is written. The log is checked exactly as generate would check it,
so summarize fails on the same malformed or inconsistent logs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "test suite title (defaults to the log file name)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")

	return cmd
}

func runSummarize(cmd *cobra.Command, opts *SummarizeOptions, logFile string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.ConfigPath, opts.Suite, "", "")
	if err != nil {
		return failWith(formatter, ErrCodeConfig, ExitCommandError, "load config", err)
	}
	if cfg.Suite == "" {
		cfg.Suite = strings.TrimSuffix(filepath.Base(logFile), filepath.Ext(logFile))
	}
	if _, err := os.Stat(logFile); err != nil {
		return failWith(formatter, ErrCodeNotFound, ExitCommandError,
			fmt.Sprintf("execution log not found: %s", logFile), err)
	}

	gen := cfg.Generator()
	gen.Logger = NewLogger(formatter.GetErrWriter(), opts.Verbose)

	sum, err := gen.Summarize(logFile, cfg.Suite, cfg.Subject)
	if err != nil {
		return failGeneration(formatter, err)
	}

	result := SummarizeResult{
		Suite:        sum.Suite,
		Assertions:   sum.Assertions,
		Requirements: requirementResults(sum.Requirements),
	}
	return formatter.Success(result)
}

func (r SummarizeResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s: %d assertion(s)\n", r.Suite, r.Assertions)
	writeTallies(w, r.Requirements)
}
