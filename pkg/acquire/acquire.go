package acquire

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/filter"
	"github.com/matzehuels/tagscout/pkg/httputil"
	"github.com/matzehuels/tagscout/pkg/version"
)

// ErrNoVersionFound is returned when every strategy of a chain ran without
// producing a version and none failed with a retryable fault. Its message
// is the failure reason recorded for the package.
var ErrNoVersionFound = errors.New("NoVersionFound")

// Result is the version a strategy resolved.
type Result struct {
	Version     string     `json:"version"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Locator     string     `json:"locator,omitempty"` // download URL or pull command
	Note        string     `json:"note,omitempty"`
	Strategy    string     `json:"strategy"`
}

// Strategy acquires a version from one source. Resolve returns (nil, nil)
// when the source holds no usable version.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error)
}

// Chain runs strategies in order until one succeeds.
type Chain struct {
	Strategies []Strategy
	Logger     *log.Logger // nil uses log.Default()
}

// Resolve runs the chain for d. See the package documentation for how
// faults are handled. A cancelled context stops the chain and returns the
// context error.
func (c *Chain) Resolve(ctx context.Context, d ecosystem.Descriptor) (*Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	var retryable error
	for _, s := range c.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.Resolve(ctx, d)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("strategy failed", "package", d.Name, "strategy", s.Name(), "err", err)
			if retryable == nil && httputil.IsRetryable(err) {
				retryable = err
			}
		case res == nil:
			logger.Debug("strategy found nothing", "package", d.Name, "strategy", s.Name())
		default:
			if res.Strategy == "" {
				res.Strategy = s.Name()
			}
			logger.Debug("resolved", "package", d.Name, "strategy", res.Strategy, "version", res.Version)
			return res, nil
		}
	}

	if retryable != nil {
		return nil, retryable
	}
	return nil, ErrNoVersionFound
}

// pick extracts, filters and selects over raws using the policy of d.
// It returns nil when nothing survives.
func pick(ex ecosystem.Extractor, d ecosystem.Descriptor, raws []ecosystem.RawCandidate, opts filter.Options) *Result {
	c, ok := filter.Resolve(ex, ecosystem.PolicyFor(d), raws, opts)
	if !ok {
		return nil
	}
	return fromCandidate(c)
}

func fromCandidate(c version.Candidate) *Result {
	return &Result{Version: c.Version, ReleaseDate: c.ReleaseDate, Locator: c.Locator}
}

// extractorOr returns the pattern extractor of d when it carries a pattern
// hint, otherwise fallback.
func extractorOr(d ecosystem.Descriptor, fallback ecosystem.Extractor) (ecosystem.Extractor, error) {
	if d.Hints.Pattern != "" || fallback == nil {
		return ecosystem.ExtractorFor(d)
	}
	return fallback, nil
}

// missOrErr merges the outcome of several sub-requests of one strategy:
// when at least one request answered, the strategy missed cleanly;
// otherwise the first retryable fault wins over other faults.
type missOrErr struct {
	answered bool
	err      error
}

func (m *missOrErr) record(err error) {
	if err == nil {
		m.answered = true
		return
	}
	if m.err == nil || (!httputil.IsRetryable(m.err) && httputil.IsRetryable(err)) {
		m.err = err
	}
}

func (m *missOrErr) result() error {
	if m.answered {
		return nil
	}
	return m.err
}
