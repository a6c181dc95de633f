package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/pipeline"
	"github.com/matzehuels/tagscout/pkg/report"
	"github.com/matzehuels/tagscout/pkg/session"
)

type historyFlags struct {
	store  string
	limit  int
	latest bool
	format string
}

// historyCommand creates the history command listing stored crawls.
func (c *CLI) historyCommand() *cobra.Command {
	flags := historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded crawls",
		Long: `List recorded crawls, newest first.

With --latest the most recent crawl is shown package by package, marking
versions that changed since the crawl before it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.store, "store", "", "run history directory or mongodb:// URL (default ~/.config/tagscout/runs)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 10, "number of crawls to list")
	cmd.Flags().BoolVar(&flags.latest, "latest", false, "show the latest crawl in detail")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "table", "output format: table, text or json")

	return cmd
}

func (c *CLI) runHistory(ctx context.Context, out io.Writer, flags historyFlags) error {
	switch flags.format {
	case "table", "text", "json":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (table, text or json)", flags.format)
	}
	if flags.store == "none" {
		return errors.New(errors.ErrCodeInvalidInput, "run history is disabled")
	}

	store, err := pipeline.OpenStore(ctx, flags.store)
	if err != nil {
		return err
	}
	defer store.Close()
	runner := pipeline.NewRunner(nil, store, c.Logger)

	limit := flags.limit
	if flags.latest {
		limit = 2
	}
	runs, err := runner.History(ctx, limit)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read run history")
	}
	if len(runs) == 0 {
		printInfo("No crawls recorded yet")
		printNextStep("Record one", "tagscout crawl")
		return nil
	}

	if !flags.latest {
		if flags.format == "json" {
			return writeJSON(out, runs)
		}
		renderTable(out, runsTable(runs))
		return nil
	}

	run := runs[0]
	var prev *session.Run
	if len(runs) > 1 {
		prev = runs[1]
	}
	switch flags.format {
	case "json":
		return report.WriteJSON(out, run, prev)
	case "text":
		return report.WriteText(out, run, prev)
	}
	changes := report.Diff(prev, run)
	printKeyValue("Run", run.ID)
	printKeyValue("Started", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	renderTable(out, outcomeTable(run.Outcomes, changes))
	printSummary(run, len(changes))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
