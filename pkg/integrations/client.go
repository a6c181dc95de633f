package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/tagscout/pkg/cache"
	"github.com/matzehuels/tagscout/pkg/httputil"
	"github.com/matzehuels/tagscout/pkg/observability"
)

// DefaultMaxBodySize caps response bodies. Docker Hub tag listings with
// page_size=1000 stay well below it.
const DefaultMaxBodySize = 32 << 20

// Options configures a [Client]. The zero value is usable: no caching,
// [DefaultTimeout], no default headers.
type Options struct {
	Cache      cache.Cache       // response body cache, nil disables caching
	Keyer      cache.Keyer       // cache key builder, nil uses cache.DefaultKeyer
	TTL        time.Duration     // lifetime of cached bodies
	Timeout    time.Duration     // per-request timeout
	Headers    map[string]string // sent with every request
	Refresh    bool              // bypass cache reads, still write fresh bodies
	MaxBody    int64             // largest accepted body, DefaultMaxBodySize when zero
	HTTPHooks  observability.HTTPHooks
	CacheHooks observability.CacheHooks
}

// Client is the fetch collaborator shared by every acquisition strategy
// and registry client. It performs GET requests, classifies failures into
// [ErrNetwork], [ErrNotFound], [ErrBodyTooLarge] and [ErrDecode], and caches
// successful bodies.
//
// A Client is safe for concurrent use.
type Client struct {
	http       *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	namespace  string
	ttl        time.Duration
	headers    map[string]string
	refresh    bool
	maxBody    int64
	hooks      observability.HTTPHooks
	cacheHooks observability.CacheHooks
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		http:       NewHTTPClient(opts.Timeout),
		cache:      opts.Cache,
		keyer:      opts.Keyer,
		namespace:  "http",
		ttl:        opts.TTL,
		headers:    opts.Headers,
		refresh:    opts.Refresh,
		maxBody:    opts.MaxBody,
		hooks:      observability.HTTPOrNoop(opts.HTTPHooks),
		cacheHooks: observability.CacheOrNoop(opts.CacheHooks),
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.keyer == nil {
		c.keyer = cache.NewDefaultKeyer()
	}
	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxBodySize
	}
	return c
}

// WithNamespace returns a shallow copy of c whose cache entries are keyed
// under ns. The copy shares the transport and the cache backend.
func (c *Client) WithNamespace(ns string) *Client {
	cp := *c
	cp.namespace = ns
	return &cp
}

// WithHTTPClient returns a copy of c using hc for transport. Tests use it to
// route requests to an httptest server.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// Namespace returns the cache namespace of c.
func (c *Client) Namespace() string { return c.namespace }

// GetText fetches rawURL and returns the body as a string.
// headers are merged over the client defaults.
func (c *Client) GetText(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	body, err := c.GetBytes(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON fetches rawURL and decodes the JSON body into v. A body that is
// not valid JSON for v yields an error wrapping [ErrDecode] and is evicted
// from the cache.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	body, err := c.GetBytes(ctx, rawURL, withAccept(headers, "application/json"))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		_ = c.cache.Delete(ctx, c.key(rawURL))
		return fmt.Errorf("%w: %s: %v", ErrDecode, rawURL, err)
	}
	return nil
}

// GetBytes fetches rawURL, serving it from the cache when possible.
func (c *Client) GetBytes(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	key := c.key(rawURL)
	if !c.refresh {
		data, hit, err := c.cache.Get(ctx, key)
		if err == nil && hit {
			c.cacheHooks.OnCacheHit(ctx, c.namespace)
			return data, nil
		}
		c.cacheHooks.OnCacheMiss(ctx, c.namespace)
	}

	data, err := c.fetch(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		c.cacheHooks.OnCacheSet(ctx, c.namespace, len(data))
	}
	return data, nil
}

// Invalidate drops the cached body of rawURL.
func (c *Client) Invalidate(ctx context.Context, rawURL string) error {
	return c.cache.Delete(ctx, c.key(rawURL))
}

func (c *Client) key(rawURL string) string {
	return c.keyer.HTTPKey(c.namespace, rawURL)
}

func (c *Client) fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := requestTarget(req.URL)
	c.hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	c.hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("GET %s: %w: over %d bytes", rawURL, ErrBodyTooLarge, c.maxBody)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return httputil.Retryable(fmt.Errorf("%w: status %d: %w", ErrNetwork, code, ErrNotFound))
	default:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	}
}

func withAccept(headers map[string]string, accept string) map[string]string {
	if _, ok := headers["Accept"]; ok {
		return headers
	}
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Accept"] = accept
	return out
}

func requestTarget(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
