// Package cli implements the tagscout command-line interface.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagscout/pkg/buildinfo"
	"github.com/matzehuels/tagscout/pkg/cache"
	"github.com/matzehuels/tagscout/pkg/pipeline"
	"github.com/matzehuels/tagscout/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = pipeline.AppName

	// defaultConfigPath is read by crawl when --config is not given.
	defaultConfigPath = "config.txt"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrPackagesFailed is returned after the report is written when at least
// one package could not be resolved. main maps it to exit status 1 without
// printing it again.
var ErrPackagesFailed = errors.New("one or more packages failed to resolve")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tagscout finds the latest stable release of software packages",
		Long: `Tagscout resolves the latest stable version of each configured package by
querying registry APIs (Docker Hub, PyPI, npm, GitHub, ...) and falling back
to scraping release pages. Every crawl is recorded so that the next report
can show which versions changed.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.crawlCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerFlags name the cache and run store of a command.
type runnerFlags struct {
	cache   string
	store   string
	noCache bool
}

func (f *runnerFlags) register(cmd *cobra.Command, withStore bool) {
	cmd.Flags().StringVar(&f.cache, "cache", "", "cache directory, redis:// URL or \"none\" (default ~/.cache/tagscout)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the HTTP response cache")
	if withStore {
		cmd.Flags().StringVar(&f.store, "store", "", "run history directory, mongodb:// URL or \"none\" (default ~/.config/tagscout/runs)")
	}
}

// cacheSpec returns the cache named by flags, then by the file settings.
func (f *runnerFlags) cacheSpec(fromFile string) string {
	switch {
	case f.noCache:
		return "none"
	case f.cache != "":
		return f.cache
	}
	return fromFile
}

func (f *runnerFlags) storeSpec(fromFile string) string {
	if f.store != "" {
		return f.store
	}
	return fromFile
}

// newRunner opens the cache and store and creates a pipeline runner. The
// returned function releases both.
func (c *CLI) newRunner(ctx context.Context, cacheSpec, storeSpec string) (*pipeline.Runner, func(), error) {
	cc, err := pipeline.OpenCache(ctx, cacheSpec)
	if err != nil {
		return nil, nil, err
	}

	var store session.Store
	if storeSpec != "none" {
		store, err = pipeline.OpenStore(ctx, storeSpec)
		if err != nil {
			cc.Close()
			return nil, nil, err
		}
	}

	closeFn := func() {
		if err := cc.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
		if store != nil {
			if err := store.Close(); err != nil {
				c.Logger.Debug("close store", "err", err)
			}
		}
	}
	return pipeline.NewRunner(cc, store, c.Logger), closeFn, nil
}

// openFileCache opens the default on-disk cache for maintenance commands.
func openFileCache() (*cache.FileCache, error) {
	dir, err := pipeline.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
