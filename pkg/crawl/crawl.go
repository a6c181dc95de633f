// Package crawl resolves many packages with bounded concurrency and retries.
//
// A [Crawler] runs packages in windows of Options.Window. Launches are paced
// by Options.Delay: every package except the first waits that long before it
// starts, and a window settles completely before the next one begins. One
// outcome is produced per package, in input order.
//
// Each package moves through an explicit state machine:
//
//	Pending → Attempting(n) → Succeeded
//	                        → Retrying → Attempting(n+1)
//	                        → Failed
//
// Only retryable faults (see [httputil.IsRetryable]) are retried, waiting
// BackoffBase × n after attempt n fails, up to RetryBudget attempts in total.
// [acquire.ErrNoVersionFound] and other faults fail at once.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tagscout/pkg/acquire"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/httputil"
	"github.com/matzehuels/tagscout/pkg/observability"
	"github.com/matzehuels/tagscout/pkg/session"
)

const (
	DefaultWindow      = 3
	DefaultRetryBudget = 3
	DefaultDelay       = time.Second
)

// State is the position of one package in the retry state machine.
type State int

const (
	Pending State = iota
	Attempting
	Retrying
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Attempting:
		return "attempting"
	case Retrying:
		return "retrying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Done reports whether s is terminal.
func (s State) Done() bool { return s == Succeeded || s == Failed }

// Resolver resolves a single package. [acquire.Env] is the standard
// implementation.
type Resolver interface {
	Resolve(ctx context.Context, d ecosystem.Descriptor) (*acquire.Result, error)
}

// Options configures a [Crawler]. Zero values select the defaults.
type Options struct {
	Window      int           // packages in flight per window
	Delay       time.Duration // pacing before each launch, negative disables
	RetryBudget int           // total attempts per package
	BackoffBase time.Duration // retry wait is BackoffBase × failed attempt, defaults to Delay

	Logger *log.Logger
	Hooks  observability.CrawlHooks

	// Sleep and Now replace the clock in tests.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Delay == 0 {
		o.Delay = DefaultDelay
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.RetryBudget <= 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = o.Delay
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	o.Hooks = observability.CrawlOrNoop(o.Hooks)
	if o.Sleep == nil {
		o.Sleep = httputil.Sleep
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Crawler resolves package lists.
type Crawler struct {
	resolver Resolver
	opts     Options
}

// New returns a crawler using r for every package.
func New(r Resolver, opts Options) *Crawler {
	return &Crawler{resolver: r, opts: opts.withDefaults()}
}

// Run resolves every descriptor and returns one outcome per descriptor in
// input order. Package failures are recorded in the outcomes, never returned.
func (c *Crawler) Run(ctx context.Context, ds []ecosystem.Descriptor) []session.Outcome {
	s := session.New()
	c.Collect(ctx, ds, s)
	return s.Outcomes()
}

// Collect is Run appending into s. Each window's outcomes are appended in
// input order once the whole window has settled.
func (c *Crawler) Collect(ctx context.Context, ds []ecosystem.Descriptor, s *session.Session) {
	for start := 0; start < len(ds); start += c.opts.Window {
		end := min(start+c.opts.Window, len(ds))
		s.Append(c.window(ctx, ds, start, end)...)
	}
}

func (c *Crawler) window(ctx context.Context, ds []ecosystem.Descriptor, start, end int) []session.Outcome {
	slots := make([]session.Outcome, end-start)

	var g errgroup.Group
	for i := start; i < end; i++ {
		d := ds[i]
		if i > 0 {
			if err := c.opts.Sleep(ctx, c.opts.Delay); err != nil {
				slots[i-start] = c.fail(ctx, i, d, err.Error(), 0)
				continue
			}
		}
		g.Go(func() error {
			slots[i-start] = c.resolve(ctx, i, d)
			return nil
		})
	}
	_ = g.Wait()
	return slots
}

// resolve drives one package to a terminal state.
func (c *Crawler) resolve(ctx context.Context, index int, d ecosystem.Descriptor) session.Outcome {
	logger := c.opts.Logger.With("package", d.Name)

	var (
		state   = Pending
		attempt int
		result  *acquire.Result
		reason  string
	)
	for !state.Done() {
		switch state {
		case Pending, Retrying:
			attempt++
			state = Attempting

		case Attempting:
			c.opts.Hooks.OnStart(ctx, index, d.Name, attempt)
			res, err := c.resolver.Resolve(ctx, d)
			switch {
			case err == nil && res != nil:
				result, state = res, Succeeded
			case err == nil, errors.Is(err, acquire.ErrNoVersionFound):
				reason, state = acquire.ErrNoVersionFound.Error(), Failed
			case ctx.Err() != nil:
				reason, state = ctx.Err().Error(), Failed
			case !httputil.IsRetryable(err):
				reason, state = err.Error(), Failed
			case attempt >= c.opts.RetryBudget:
				reason, state = fmt.Sprintf("failed after %d attempts: %v", attempt, err), Failed
			default:
				wait := httputil.LinearBackoff(c.opts.BackoffBase, attempt)
				logger.Warn("retrying", "attempt", attempt, "wait", wait, "err", err)
				c.opts.Hooks.OnRetry(ctx, index, d.Name, attempt, wait, err)
				if serr := c.opts.Sleep(ctx, wait); serr != nil {
					reason, state = serr.Error(), Failed
				} else {
					state = Retrying
				}
			}
		}
	}

	if state == Failed {
		logger.Error("resolution failed", "reason", reason, "attempts", attempt)
		return c.fail(ctx, index, d, reason, attempt)
	}

	logger.Info("resolved", "version", result.Version, "strategy", result.Strategy)
	c.opts.Hooks.OnDone(ctx, index, d.Name, result.Version, "", attempt)
	return session.Outcome{
		Package:    d.Name,
		SourceURL:  d.URL,
		Kind:       d.Kind,
		Resolved:   resolvedVersion(result),
		ResolvedAt: c.opts.Now(),
		Attempts:   attempt,
	}
}

func (c *Crawler) fail(ctx context.Context, index int, d ecosystem.Descriptor, reason string, attempts int) session.Outcome {
	c.opts.Hooks.OnDone(ctx, index, d.Name, "", reason, attempts)
	return session.Outcome{
		Package:       d.Name,
		SourceURL:     d.URL,
		Kind:          d.Kind,
		FailureReason: reason,
		ResolvedAt:    c.opts.Now(),
		Attempts:      attempts,
	}
}

func resolvedVersion(r *acquire.Result) *session.ResolvedVersion {
	return &session.ResolvedVersion{
		Version:     r.Version,
		ReleaseDate: r.ReleaseDate,
		Locator:     r.Locator,
		Note:        r.Note,
		Strategy:    r.Strategy,
	}
}
