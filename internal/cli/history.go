package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ctlearl/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	RunID string
}

// HistoryRun is one run in the history output.
type HistoryRun struct {
	store.Run
	Totals []RequirementResult `json:"totals"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <db>",
		Short: "List recorded report runs",
		Long: `List runs recorded by "generate --history", newest first, with the
tally of every conformance class.

Examples:
  ctlearl history runs.db
  ctlearl history runs.db --limit 5 --format json
  ctlearl history runs.db --run 01890a5d-ac96-774b-bcce-b302099a8057`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run by id")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions, dbPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Open would create an empty database; a missing path is a usage error.
	if _, err := os.Stat(dbPath); err != nil {
		return failWith(formatter, ErrCodeNotFound, ExitCommandError,
			fmt.Sprintf("database not found: %s", dbPath), err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError, "open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return failWith(formatter, ErrCodeNotFound, ExitCommandError,
				fmt.Sprintf("run not found: %s", opts.RunID), err)
		}
		if err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, "read run "+opts.RunID, err)
		}
		return formatter.Success(historyList{newHistoryRun(run, run.Requirements)})
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return failWith(formatter, ErrCodeHistory, ExitCommandError, "list runs", err)
	}

	out := make(historyList, 0, len(runs))
	for _, run := range runs {
		reqs, err := st.RunRequirements(ctx, run.ID)
		if err != nil {
			return failWith(formatter, ErrCodeHistory, ExitCommandError, "read run "+run.ID, err)
		}
		out = append(out, newHistoryRun(run, reqs))
	}
	return formatter.Success(out)
}

func newHistoryRun(run store.Run, reqs []store.RunRequirement) HistoryRun {
	run.Requirements = nil
	hr := HistoryRun{Run: run, Totals: make([]RequirementResult, 0, len(reqs))}
	for _, r := range reqs {
		hr.Totals = append(hr.Totals, RequirementResult{Name: r.Name, Tally: r.Tally, Total: r.Tally.Total()})
	}
	return hr
}

// historyList is the history command's result, newest run first.
type historyList []HistoryRun

func (l historyList) writeText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	for _, hr := range l {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			hr.ID, hr.CreatedAt.UTC().Format("2006-01-02 15:04:05"), hr.Suite, hr.Subject)
		fmt.Fprintf(w, "  %s (%d assertion(s))\n", hr.OutputPath, hr.Assertions)
		writeTallies(w, hr.Totals)
	}
}
