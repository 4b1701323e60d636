package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ctlearl/internal/config"
	"github.com/roach88/ctlearl/internal/report"
	"github.com/roach88/ctlearl/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Suite      string
	Subject    string
	ConfigPath string
	History    string
}

// GenerateResult is the output of a successful generate.
type GenerateResult struct {
	OutputPath   string              `json:"output_path"`
	Suite        string              `json:"suite"`
	Subject      string              `json:"subject"`
	Assertions   int                 `json:"assertions"`
	Requirements []RequirementResult `json:"requirements"`
	RunID        string              `json:"run_id,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <log-file> <output-dir>",
		Short: "Write the EARL report for an execution log",
		Long: `Convert a CTL execution log into an EARL report.

The report is written to <output-dir>/earl-results.rdf, replacing any
previous report. The output directory is created when missing. Nothing is
written when the log is malformed or inconsistent.

Examples:
  ctlearl generate log.xml ./out --suite wms-1.3.0 --subject http://example.org/wms
  ctlearl generate log.xml ./out --config ctlearl.yaml --history runs.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Suite, "suite", "", "test suite title")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "absolute URI of the test subject")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.History, "history", "", "record the run in this SQLite database")

	return cmd
}

// loadConfig reads the config file (if any) and applies flag overrides.
func loadConfig(path, suite, subject, history string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if suite != "" {
		cfg.Suite = suite
	}
	if subject != "" {
		cfg.Subject = subject
	}
	if history != "" {
		cfg.History = history
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions, logFile, outputDir string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.ConfigPath, opts.Suite, opts.Subject, opts.History)
	if err != nil {
		return failWith(formatter, ErrCodeConfig, ExitCommandError, "load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return failWith(formatter, ErrCodeConfig, ExitCommandError, "invalid configuration", err)
	}
	if _, err := os.Stat(logFile); err != nil {
		return failWith(formatter, ErrCodeNotFound, ExitCommandError,
			fmt.Sprintf("execution log not found: %s", logFile), err)
	}

	gen := cfg.Generator()
	gen.Logger = NewLogger(formatter.GetErrWriter(), opts.Verbose)

	sum, err := gen.Generate(outputDir, logFile, cfg.Suite, cfg.Subject)
	if err != nil {
		return failGeneration(formatter, err)
	}

	result := GenerateResult{
		OutputPath:   sum.OutputPath,
		Suite:        sum.Suite,
		Subject:      sum.Subject,
		Assertions:   sum.Assertions,
		Requirements: requirementResults(sum.Requirements),
	}

	if cfg.History != "" {
		id, err := recordRun(cmd.Context(), cfg.History, sum)
		if err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, "record run history", err)
		}
		result.RunID = id
		formatter.VerboseLog("Recorded run %s in %s", id, cfg.History)
	}

	return formatter.Success(result)
}

func (r GenerateResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "✓ Report written to %s\n", r.OutputPath)
	fmt.Fprintf(w, "  %d assertion(s)\n", r.Assertions)
	writeTallies(w, r.Requirements)
}

// recordRun stores sum in the history database at path.
func recordRun(ctx context.Context, path string, sum *report.Summary) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run := store.Run{
		Suite:      sum.Suite,
		Subject:    sum.Subject,
		CreatedAt:  sum.Created,
		OutputPath: sum.OutputPath,
		Assertions: sum.Assertions,
	}
	for i, req := range sum.Requirements {
		run.Requirements = append(run.Requirements, store.RunRequirement{
			Position: i + 1,
			Name:     req.Name,
			Tally:    req.Tally,
		})
	}
	return st.RecordRun(ctx, run)
}
