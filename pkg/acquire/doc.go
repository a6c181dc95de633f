// Package acquire turns a package descriptor into a resolved version by
// running an ordered chain of acquisition strategies.
//
// # Strategies
//
// A [Strategy] fetches one kind of source (a registry API, a release page, a
// directory listing), extracts raw candidates from it, and runs them through
// extraction, filtering and selection. It returns a [Result] on success and
// (nil, nil) when the source answered but held no usable version.
//
// # Chains
//
// A [Chain] tries its strategies in order and stops at the first success.
// Faults are logged and the chain falls through to the next strategy:
//
//   - Transport faults (timeouts, connection errors, any non-2xx status)
//     are retryable and remembered.
//   - Decode failures (malformed JSON, schema mismatch) and oversized bodies
//     count as a miss.
//
// When every strategy misses, the chain returns the first retryable fault
// it saw, so the caller can retry the package, or [ErrNoVersionFound].
//
// # Chain table
//
// [Env.ChainFor] builds the chain of a package kind from a static table:
//
//	docker-hub       tags API, tags page rows, main page text, release page
//	github-releases  releases API, release cards, page text
//	pypi             JSON API, project header, page text
//	npm              registry document, embedded "version" fields, page text
//	hashicorp        releases API, release tree links, page text
//	opkg             listing anchors, page text
//	registries       registry API, page text
//	generic          configurable selectors, page text
//
// Registries are crates.io, RubyGems, the Go module proxy, Maven Central
// and Packagist.
package acquire
