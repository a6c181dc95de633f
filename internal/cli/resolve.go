package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/pipeline"
	"github.com/matzehuels/tagscout/pkg/session"
)

type resolveFlags struct {
	runnerFlags
	pkg         config.Package
	format      string
	retries     int
	timeout     time.Duration
	refresh     bool
	githubToken string
}

// resolveCommand creates the resolve command for a single package.
func (c *CLI) resolveCommand() *cobra.Command {
	flags := resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <name> <url>",
		Short: "Resolve the latest stable version of one package",
		Long: `Resolve the latest stable version of one package without reading a
configuration file or recording a run.

The package kind is detected from the URL and name unless --kind is given.
For generic release pages, CSS selectors tell the scraper where versions and
dates are.`,
		Example: `  tagscout resolve alpine https://hub.docker.com/_/alpine
  tagscout resolve curl https://curl.se/download.html --kind generic --version-selector "table.download td a"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.pkg.Name, flags.pkg.URL = args[0], args[1]
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.pkg.Kind, "kind", "", "package kind (docker-hub, github, pypi, npm, ..., generic)")
	cmd.Flags().StringVar(&flags.pkg.Scheme, "scheme", "", "version scheme override (numbered, yymm, codename, ...)")
	cmd.Flags().StringVar(&flags.pkg.Hints.VersionSelector, "version-selector", "", "CSS selector for version elements")
	cmd.Flags().StringVar(&flags.pkg.Hints.DateSelector, "date-selector", "", "CSS selector for release date elements")
	cmd.Flags().StringVar(&flags.pkg.Hints.LinkSelector, "link-selector", "", "CSS selector for download links")
	cmd.Flags().StringVar(&flags.pkg.Hints.Pattern, "pattern", "", "regular expression with one capture group for the version")
	cmd.Flags().StringVarP(&flags.format, "format", "f", pipeline.DefaultFormat, "output format: text or json")
	cmd.Flags().IntVar(&flags.retries, "retries", 0, "attempts (default 3)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout (default 10s)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached responses and fetch again")
	cmd.Flags().StringVar(&flags.githubToken, "github-token", "", "GitHub API token (default $GITHUB_TOKEN)")
	flags.runnerFlags.register(cmd, false)

	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		kinds := make([]string, len(ecosystem.Kinds))
		for i, k := range ecosystem.Kinds {
			kinds[i] = string(k)
		}
		return kinds, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, out io.Writer, flags resolveFlags) error {
	if err := errors.ValidateFormat(flags.format); err != nil {
		return err
	}
	d, err := flags.pkg.Descriptor()
	if err != nil {
		return err
	}

	runner, closeRunner, err := c.newRunner(ctx, flags.cacheSpec(""), "none")
	if err != nil {
		return err
	}
	defer closeRunner()

	opts := pipeline.Options{
		Timeout:     flags.timeout,
		RetryBudget: flags.retries,
		Delay:       -1,
		BackoffBase: pipeline.DefaultDelay,
		Window:      1,
		Refresh:     flags.refresh,
		Format:      flags.format,
		Logger:      c.Logger,
		GitHubToken: githubToken(flags.githubToken),
	}

	var outcomes []session.Outcome
	if flags.format == "json" {
		outcomes, err = runner.Resolve(ctx, []ecosystem.Descriptor{d}, opts)
	} else {
		opts.Logger = quietLogger(c.Logger)
		spinner := newSpinner(ctx, "Resolving "+d.Name+" ("+string(d.Kind)+")")
		spinner.Start()
		outcomes, err = runner.Resolve(ctx, []ecosystem.Descriptor{d}, opts)
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	o := outcomes[0]

	if flags.format == "json" {
		if err := writeJSON(out, o); err != nil {
			return err
		}
	} else {
		printOutcome(o)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if !o.OK() {
		return ErrPackagesFailed
	}
	return nil
}

// printOutcome prints one resolved or failed package.
func printOutcome(o session.Outcome) {
	if !o.OK() {
		printError("%s: %s", o.Package, StyleError.Render(o.FailureReason))
		printDetail("%s after %d attempt(s)", o.Kind, o.Attempts)
		return
	}
	printSuccess("%s %s", o.Package, StyleHighlight.Render(o.Resolved.Version))
	if date := ecosystem.FormatDate(o.Resolved.ReleaseDate); date != "" {
		printKeyValue("Released", date)
	}
	printKeyValue("Kind", string(o.Kind))
	printKeyValue("Strategy", o.Resolved.Strategy)
	if o.Resolved.Locator != "" {
		printKeyValue("Source", StyleLink.Render(o.Resolved.Locator))
	}
	if o.Resolved.Note != "" {
		printKeyValue("Note", o.Resolved.Note)
	}
}
