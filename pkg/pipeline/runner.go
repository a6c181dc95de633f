package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagscout/pkg/acquire"
	"github.com/matzehuels/tagscout/pkg/cache"
	"github.com/matzehuels/tagscout/pkg/crawl"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/integrations"
	"github.com/matzehuels/tagscout/pkg/report"
	"github.com/matzehuels/tagscout/pkg/session"
)

// Runner encapsulates engine execution with caching and run history.
// Both CLI and API use it so that they resolve packages identically.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  session.Store // nil disables run history
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil store
// disables run history.
func NewRunner(c cache.Cache, store session.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Store:  store,
		Logger: logger,
	}
}

// Result is the output of [Runner.Execute].
type Result struct {
	Run      *session.Run
	Previous *session.Run // latest stored run before this one, if any
	Changes  []report.Change
	Duration time.Duration
}

// Failed reports whether any package failed to resolve.
func (r *Result) Failed() bool { return r.Run.Failed() }

// Env builds the fetch environment for opts.
func (r *Runner) Env(opts Options) *acquire.Env {
	base := integrations.NewClient(integrations.Options{
		Cache:      r.Cache,
		Keyer:      r.Keyer,
		TTL:        opts.CacheTTL,
		Timeout:    opts.Timeout,
		Refresh:    opts.Refresh,
		HTTPHooks:  opts.HTTPHooks,
		CacheHooks: opts.CacheHooks,
	})
	return acquire.NewEnv(base, acquire.EnvOptions{
		GitHubToken:  opts.GitHubToken,
		BaseURLs:     opts.BaseURLs,
		ReleasePages: opts.ReleasePages,
		Now:          opts.Now,
		Logger:       opts.Logger,
	})
}

// Resolve resolves ds without touching run history. Outcomes are in input
// order.
func (r *Runner) Resolve(ctx context.Context, ds []ecosystem.Descriptor, opts Options) ([]session.Outcome, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	return r.crawler(opts).Run(ctx, ds), nil
}

// Execute resolves ds, compares the outcomes with the latest stored run and
// saves the new run. Package failures are reported in the run, not as an
// error; history failures are logged.
func (r *Runner) Execute(ctx context.Context, ds []ecosystem.Descriptor, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var prev *session.Run
	if r.Store != nil {
		p, err := r.Store.Latest(ctx)
		if err != nil {
			opts.Logger.Warn("load previous run", "err", err)
		}
		prev = p
	}

	start := time.Now()
	startedAt := now()
	outcomes := r.crawler(opts).Run(ctx, ds)
	run := session.NewRun(startedAt, now(), outcomes)

	result := &Result{
		Run:      run,
		Previous: prev,
		Changes:  report.Diff(prev, run),
		Duration: time.Since(start),
	}

	total, ok, failed := run.Counts()
	opts.Logger.Info("crawl finished",
		"packages", total,
		"successful", ok,
		"failed", failed,
		"changed", len(result.Changes),
		"duration", result.Duration.Round(time.Millisecond))

	if r.Store != nil {
		if err := r.Store.Save(ctx, run); err != nil {
			opts.Logger.Warn("save run", "err", err)
		}
	}
	return result, nil
}

// Latest returns the latest stored run, or nil when history is disabled or
// empty.
func (r *Runner) Latest(ctx context.Context) (*session.Run, error) {
	if r.Store == nil {
		return nil, nil
	}
	return r.Store.Latest(ctx)
}

// History returns up to limit stored runs, newest first.
func (r *Runner) History(ctx context.Context, limit int) ([]*session.Run, error) {
	if r.Store == nil {
		return nil, nil
	}
	return r.Store.List(ctx, limit)
}

func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.ValidateAndSetDefaults()
}

func (r *Runner) crawler(opts Options) *crawl.Crawler {
	return crawl.New(r.Env(opts), crawl.Options{
		Window:      opts.Window,
		Delay:       opts.Delay,
		RetryBudget: opts.RetryBudget,
		BackoffBase: opts.BackoffBase,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
		Sleep:       opts.Sleep,
		Now:         opts.Now,
	})
}
