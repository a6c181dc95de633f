// Package pipeline wires the resolution engine for the CLI and the HTTP
// server.
//
// A [Runner] owns the long-lived collaborators (HTTP cache, run store,
// logger) and turns a package list into outcomes:
//
//  1. Build the fetch environment: one integrations.Client over the cache,
//     plus the registry clients of acquire.Env
//  2. Crawl: resolve every package through its fallback chain with
//     bounded concurrency and retries (pkg/crawl)
//  3. Record: freeze the outcomes into a session.Run, compare it with the
//     previous run and save it
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, store, logger)
//	result, err := runner.Execute(ctx, descriptors, pipeline.Options{Window: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.WriteText(os.Stdout, result.Run, result.Previous)
//
// Options are resolved in three layers: explicit values (flags, request
// body), then the configuration file ([Options.Apply]), then the defaults
// below ([Options.ValidateAndSetDefaults]).
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagscout/pkg/acquire"
	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultRetryBudget is the total number of attempts per package.
	DefaultRetryBudget = 3

	// DefaultDelay paces package launches and is the default backoff base.
	DefaultDelay = time.Second

	// DefaultWindow is the number of packages resolved concurrently.
	DefaultWindow = 3

	// DefaultCacheTTL is the lifetime of cached HTTP responses.
	DefaultCacheTTL = time.Hour

	// DefaultFormat is the report format.
	DefaultFormat = "text"
)

// MaxWindow caps concurrency for API requests.
const MaxWindow = 16

// =============================================================================
// Options - Engine Configuration
// =============================================================================

// Options configures one crawl.
type Options struct {
	Timeout     time.Duration `json:"timeout,omitempty"`
	RetryBudget int           `json:"retry_budget,omitempty"`
	Delay       time.Duration `json:"delay,omitempty"` // negative disables pacing
	BackoffBase time.Duration `json:"backoff_base,omitempty"`
	Window      int           `json:"window,omitempty"`
	CacheTTL    time.Duration `json:"cache_ttl,omitempty"`
	Refresh     bool          `json:"refresh,omitempty"` // bypass cached responses
	Format      string        `json:"format,omitempty"`

	// Runtime options (not serialized)
	Logger       *log.Logger                    `json:"-"`
	GitHubToken  string                         `json:"-"`
	BaseURLs     map[ecosystem.Kind]string      `json:"-"`
	ReleasePages map[string]acquire.ReleasePage `json:"-"`
	Hooks        observability.CrawlHooks       `json:"-"`
	HTTPHooks    observability.HTTPHooks        `json:"-"`
	CacheHooks   observability.CacheHooks       `json:"-"`

	// Clock overrides for tests.
	Now   func() time.Time                                 `json:"-"`
	Sleep func(ctx context.Context, d time.Duration) error `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Apply fills options left unset from file settings.
func (o *Options) Apply(s config.Settings) {
	if o.Timeout == 0 {
		o.Timeout = s.Timeout
	}
	if o.RetryBudget == 0 {
		o.RetryBudget = s.RetryBudget
	}
	if o.Delay == 0 {
		o.Delay = s.Delay
	}
	if o.BackoffBase == 0 {
		o.BackoffBase = s.BackoffBase
	}
	if o.Window == 0 {
		o.Window = s.Window
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = s.CacheTTL
	}
}

// ValidateAndSetDefaults checks option ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Timeout < 0 || o.BackoffBase < 0 || o.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations must not be negative")
	}
	if o.RetryBudget < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "retry_budget must not be negative")
	}
	if o.Window < 0 || o.Window > MaxWindow {
		return errors.New(errors.ErrCodeInvalidInput, "window must be between 1 and %d", MaxWindow)
	}

	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RetryBudget == 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.Delay == 0 {
		o.Delay = DefaultDelay
	}
	if o.BackoffBase == 0 {
		o.BackoffBase = max(o.Delay, 0)
	}
	if o.Window == 0 {
		o.Window = DefaultWindow
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := errors.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
