// Package integrations fetches documents from package sources.
//
// [Client] is the single transport used by every acquisition strategy: it
// performs GET requests with a timeout, merges default headers (User-Agent),
// caches successful bodies in a [cache.Cache] and classifies failures:
//
//   - [ErrNetwork]: connection errors, timeouts and every non-2xx status,
//     wrapped in [httputil.RetryableError]
//   - [ErrNotFound]: additionally marks an HTTP 404
//   - [ErrBodyTooLarge]: a body over the size limit
//   - [ErrDecode]: a structured response that could not be decoded
//
// Retries are not performed here; the crawler owns the retry policy.
//
// Registry-specific clients live in subpackages:
//
//   - [dockerhub]: Docker Hub tag listings
//   - [github]: GitHub releases
//   - [pypi]: Python Package Index JSON API
//   - [npm]: npm registry documents
//   - [hashicorp]: HashiCorp releases API
//
// [cache.Cache]: github.com/matzehuels/tagscout/pkg/cache.Cache
// [httputil.RetryableError]: github.com/matzehuels/tagscout/pkg/httputil.RetryableError
// [dockerhub]: github.com/matzehuels/tagscout/pkg/integrations/dockerhub
// [github]: github.com/matzehuels/tagscout/pkg/integrations/github
// [pypi]: github.com/matzehuels/tagscout/pkg/integrations/pypi
// [npm]: github.com/matzehuels/tagscout/pkg/integrations/npm
// [hashicorp]: github.com/matzehuels/tagscout/pkg/integrations/hashicorp
package integrations
