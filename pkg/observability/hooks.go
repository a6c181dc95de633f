// Package observability defines event hooks for crawls, HTTP traffic and
// cache access.
//
// Hooks are plain interfaces handed to the components that emit them
// (crawl.Options.Hooks, integrations.Client.HTTPHooks, ...). There is no
// process-wide registry: a component without hooks uses the Noop variants.
// Several consumers, such as the progress TUI and a metrics exporter, can be
// attached at once with [MultiCrawl].
package observability

import (
	"context"
	"time"
)

// CrawlHooks receives per-package events from a crawl.
type CrawlHooks interface {
	// OnStart is called before attempt n (1-based) for the package at index.
	OnStart(ctx context.Context, index int, name string, attempt int)

	// OnRetry is called when attempt n failed with a retryable error and the
	// package waits before the next attempt.
	OnRetry(ctx context.Context, index int, name string, attempt int, wait time.Duration, err error)

	// OnDone is called once per package when its outcome is final. version is
	// empty when resolution failed, and reason then holds the failure reason.
	OnDone(ctx context.Context, index int, name, version, reason string, attempts int)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// HTTPHooks receives events from outgoing HTTP requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a request that produced no response (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopCrawlHooks ignores every event.
type NoopCrawlHooks struct{}

func (NoopCrawlHooks) OnStart(context.Context, int, string, int)                       {}
func (NoopCrawlHooks) OnRetry(context.Context, int, string, int, time.Duration, error) {}
func (NoopCrawlHooks) OnDone(context.Context, int, string, string, string, int)        {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// MultiCrawl fans crawl events out to every non-nil hook in order.
func MultiCrawl(hooks ...CrawlHooks) CrawlHooks {
	var live multiCrawl
	for _, h := range hooks {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return NoopCrawlHooks{}
	case 1:
		return live[0]
	}
	return live
}

type multiCrawl []CrawlHooks

func (m multiCrawl) OnStart(ctx context.Context, index int, name string, attempt int) {
	for _, h := range m {
		h.OnStart(ctx, index, name, attempt)
	}
}

func (m multiCrawl) OnRetry(ctx context.Context, index int, name string, attempt int, wait time.Duration, err error) {
	for _, h := range m {
		h.OnRetry(ctx, index, name, attempt, wait, err)
	}
}

func (m multiCrawl) OnDone(ctx context.Context, index int, name, version, reason string, attempts int) {
	for _, h := range m {
		h.OnDone(ctx, index, name, version, reason, attempts)
	}
}

// CrawlOrNoop returns h, or [NoopCrawlHooks] when h is nil.
func CrawlOrNoop(h CrawlHooks) CrawlHooks {
	if h == nil {
		return NoopCrawlHooks{}
	}
	return h
}

// HTTPOrNoop returns h, or [NoopHTTPHooks] when h is nil.
func HTTPOrNoop(h HTTPHooks) HTTPHooks {
	if h == nil {
		return NoopHTTPHooks{}
	}
	return h
}

// CacheOrNoop returns h, or [NoopCacheHooks] when h is nil.
func CacheOrNoop(h CacheHooks) CacheHooks {
	if h == nil {
		return NoopCacheHooks{}
	}
	return h
}
