package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/internal/server"
	"github.com/matzehuels/tagscout/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags          runnerFlags
		addr           string
		maxPackages    int
		requestTimeout time.Duration
		githubTok      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolution engine over HTTP",
		Long: `Serve the resolution engine over HTTP.

Routes:
  GET  /healthz          liveness and build information
  POST /v1/resolve       resolve a package list
  GET  /v1/runs          stored crawl summaries
  GET  /v1/runs/latest   latest stored crawl report

The cache and run store are shared with the CLI, so a Redis cache and a
MongoDB store let several instances work from the same data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, closeRunner, err := c.newRunner(ctx, flags.cacheSpec(""), flags.storeSpec(""))
			if err != nil {
				return err
			}
			defer closeRunner()

			h := server.New(server.Config{
				Runner:         runner,
				Logger:         c.Logger,
				Defaults:       pipeline.Options{GitHubToken: githubToken(githubTok)},
				MaxPackages:    maxPackages,
				RequestTimeout: requestTimeout,
			})
			return server.Serve(ctx, addr, h, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxPackages, "max-packages", server.DefaultMaxPackages, "largest package list accepted per request")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", server.DefaultRequestTimeout, "time limit of one resolve request")
	cmd.Flags().StringVar(&githubTok, "github-token", "", "GitHub API token (default $GITHUB_TOKEN)")
	flags.register(cmd, true)

	return cmd
}
