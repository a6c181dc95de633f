// Package pkg provides the libraries behind tagscout, a resolver for the
// latest stable release of software packages.
//
// # Overview
//
// Tagscout takes a list of packages (a name, a source URL and a kind) and
// finds the newest stable version each one publishes, together with its
// release date and a download locator. Sources are registry APIs where they
// exist and scraped release pages where they don't.
//
// # Architecture
//
// The data flow of one crawl:
//
//	config file / API request
//	         ↓
//	    [config] package (descriptors + settings)
//	         ↓
//	    [crawl] package (windows, pacing, retries)
//	         ↓
//	    [acquire] package (strategy chain per kind)
//	         ↓
//	    [integrations] + [dom] (fetch and parse)
//	         ↓
//	    [ecosystem] → [filter] → [version] (extract, filter, select)
//	         ↓
//	    [session] (outcomes, run history) → [report] (text / JSON)
//
// [pipeline] wires these together for the CLI and the HTTP server, so both
// resolve packages identically.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	d := ecosystem.NewDescriptor("alpine", "https://hub.docker.com/_/alpine", "")
//	outcomes, err := runner.Resolve(ctx, []ecosystem.Descriptor{d}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(outcomes[0].Version())
//
// # Main Packages
//
// ## Version Logic
//
// [version] - Version comparison (numeric segments, suffix-aware) and
// selection of the latest stable candidate.
//
// [ecosystem] - Package kinds, version schemes and their policies, and the
// extractors turning raw tag or page text into candidates.
//
// [filter] - Candidate filters: scheme validity, isolated-maximum exclusion
// and release recency.
//
// ## Acquisition
//
// [acquire] - Strategy chains per kind with fallback from APIs to pages.
//
// [integrations] - HTTP client with caching and hooks, plus one client per
// registry (Docker Hub, GitHub, PyPI, npm, HashiCorp, crates.io, RubyGems,
// Go proxy, Maven Central, Packagist).
//
// [dom] - HTML documents with CSS selector queries.
//
// [httputil] - Retry classification and backoff.
//
// ## Orchestration
//
// [crawl] - Windowed concurrent resolution with a per-package retry state
// machine.
//
// [pipeline] - Options, defaults and the Runner used by CLI and API.
//
// ## Infrastructure
//
// [cache] - Response caches: file, Redis and null.
//
// [session] - Outcomes, runs and run stores (file, MongoDB).
//
// [report] - Text and JSON reports, run diffs and result fingerprints.
//
// [config] - Legacy, TOML and YAML configuration files.
//
// [observability] - Crawl, HTTP and cache hooks.
//
// [errors] - Structured error codes for the CLI and API edges.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis, MongoDB and live registry tests
//
// [version]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/version
// [ecosystem]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/ecosystem
// [filter]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/filter
// [acquire]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/acquire
// [integrations]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/integrations
// [dom]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/dom
// [httputil]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/httputil
// [crawl]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/crawl
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/session
// [report]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/report
// [config]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tagscout/pkg/errors
package pkg
