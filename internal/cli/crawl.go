package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/observability"
	"github.com/matzehuels/tagscout/pkg/pipeline"
	"github.com/matzehuels/tagscout/pkg/report"
)

// crawlFlags holds the flags of the crawl command.
type crawlFlags struct {
	runnerFlags
	config      string
	format      string
	output      string
	tui         bool
	refresh     bool
	window      int
	delay       time.Duration
	retries     int
	timeout     time.Duration
	githubToken string
}

// crawlCommand creates the crawl command.
func (c *CLI) crawlCommand() *cobra.Command {
	flags := crawlFlags{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Resolve the latest stable version of every configured package",
		Long: `Resolve the latest stable version of every package in a configuration file.

The configuration format is chosen by extension: .toml and .yaml files carry
settings and per-package hints, anything else is read as "name = url" lines.
Each crawl is saved to the run history and the report marks versions that
changed since the previous crawl. The command exits with status 1 when any
package could not be resolved.`,
		Example: `  # Crawl ./config.txt and print a text report
  tagscout crawl

  # Crawl a TOML config with live progress and write a JSON report
  tagscout crawl -c packages.toml --tui --format json -o report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrawl(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", defaultConfigPath, "configuration file")
	cmd.Flags().StringVarP(&flags.format, "format", "f", pipeline.DefaultFormat, "report format: text or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.tui, "tui", false, "show live per-package progress")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached responses and fetch again")
	cmd.Flags().IntVar(&flags.window, "window", 0, "packages resolved concurrently (default 3)")
	cmd.Flags().DurationVar(&flags.delay, "delay", 0, "pause between package launches and backoff base (default 1s)")
	cmd.Flags().IntVar(&flags.retries, "retries", 0, "attempts per package (default 3)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout (default 10s)")
	cmd.Flags().StringVar(&flags.githubToken, "github-token", "", "GitHub API token (default $GITHUB_TOKEN)")
	flags.runnerFlags.register(cmd, true)

	return cmd
}

func (c *CLI) runCrawl(ctx context.Context, out io.Writer, flags crawlFlags) error {
	if err := errors.ValidateFormat(flags.format); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	file, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	for _, w := range file.Warnings {
		c.Logger.Warn(w, "file", flags.config)
	}
	ds, err := file.Descriptors()
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no packages configured in %s", flags.config)
	}
	prog.done(fmt.Sprintf("Loaded %d packages from %s", len(ds), flags.config))

	opts := pipeline.Options{
		Timeout:     flags.timeout,
		RetryBudget: flags.retries,
		Delay:       flags.delay,
		Window:      flags.window,
		Refresh:     flags.refresh,
		Format:      flags.format,
		Logger:      c.Logger,
		GitHubToken: githubToken(flags.githubToken),
	}
	opts.Apply(file.Settings)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, closeRunner, err := c.newRunner(ctx,
		flags.cacheSpec(file.Settings.Cache),
		flags.storeSpec(file.Settings.Store))
	if err != nil {
		return err
	}
	defer closeRunner()

	var result *pipeline.Result
	if flags.tui {
		result, err = c.executeWithProgress(ctx, runner, ds, opts)
	} else {
		result, err = runner.Execute(ctx, ds, opts)
	}
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := report.ExportFile(flags.output, opts.Format, result.Run, result.Previous); err != nil {
			return err
		}
		printSuccess("Crawled %d packages in %s", len(ds), result.Duration.Round(time.Millisecond))
		printFile(flags.output)
		printSummary(result.Run, len(result.Changes))
	} else if err := writeReport(out, opts.Format, result); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if result.Failed() {
		return ErrPackagesFailed
	}
	return nil
}

// writeReport writes the report of result to w in format.
func writeReport(w io.Writer, format string, result *pipeline.Result) error {
	if format == "json" {
		return report.WriteJSON(w, result.Run, result.Previous)
	}
	return report.WriteText(w, result.Run, result.Previous)
}

// executeWithProgress runs the crawl while a bubbletea program renders
// per-package progress on stderr. Quitting the view cancels the crawl.
func (c *CLI) executeWithProgress(ctx context.Context, runner *pipeline.Runner, ds []ecosystem.Descriptor, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewCrawlModel(ds), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	opts.Hooks = observability.MultiCrawl(opts.Hooks, progressHooks{send: p.Send})
	opts.Logger = quietLogger(c.Logger)

	var (
		result *pipeline.Result
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		result, runErr = runner.Execute(ctx, ds, opts)
		p.Send(crawlDoneMsg{})
	}()

	final, err := p.Run()
	if m, ok := final.(CrawlModel); ok && m.Aborted {
		cancel()
		err = context.Canceled
	}
	if err != nil {
		cancel()
		<-done
		return nil, err
	}
	<-done
	return result, runErr
}

func githubToken(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("GITHUB_TOKEN")
}
