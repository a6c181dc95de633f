package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/tagscout/pkg/cache"
	"github.com/matzehuels/tagscout/pkg/httputil"
)

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	if opts.Cache == nil {
		c, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		opts.Cache = c
	}
	if opts.TTL == 0 {
		opts.TTL = time.Hour
	}
	return NewClient(opts)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	if c.http == nil {
		t.Fatal("http client is nil")
	}
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if _, ok := c.cache.(cache.NullCache); !ok {
		t.Errorf("cache = %T, want NullCache", c.cache)
	}
	if c.Namespace() != "http" {
		t.Errorf("namespace = %q", c.Namespace())
	}
}

func TestClientGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, `{"message":"hello"}`)
	}))
	defer server.Close()

	c := newTestClient(t, Options{})
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.GetJSON(context.Background(), server.URL, nil, &resp); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientHeaders(t *testing.T) {
	var gotDefault, gotOverride string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("User-Agent")
		gotOverride = r.Header.Get("X-Override")
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	c := newTestClient(t, Options{
		Headers: map[string]string{"User-Agent": "tagscout-test", "X-Override": "default"},
		Refresh: true,
	})
	if _, err := c.GetText(context.Background(), server.URL, map[string]string{"X-Override": "request"}); err != nil {
		t.Fatal(err)
	}
	if gotDefault != "tagscout-test" {
		t.Errorf("User-Agent = %q", gotDefault)
	}
	if gotOverride != "request" {
		t.Errorf("request headers should override defaults, got %q", gotOverride)
	}
}

func TestClientStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		sentinel  error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, true},
		{"not found is a network error", http.StatusNotFound, ErrNetwork, true},
		{"server error", http.StatusServiceUnavailable, ErrNetwork, true},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"forbidden", http.StatusForbidden, ErrNetwork, true},
		{"unauthorized", http.StatusUnauthorized, ErrNetwork, true},
		{"gone", http.StatusGone, ErrNetwork, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := newTestClient(t, Options{})
			_, err := c.GetText(context.Background(), server.URL, nil)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientBodyLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"under the limit", 63, false},
		{"at the limit", 64, false},
		{"over the limit", 65, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, strings.Repeat("x", tt.size))
			}))
			defer server.Close()

			c := newTestClient(t, Options{MaxBody: 64})
			body, err := c.GetText(context.Background(), server.URL, nil)
			if !tt.wantErr {
				if err != nil || len(body) != tt.size {
					t.Fatalf("GetText() = %d bytes, %v", len(body), err)
				}
				return
			}
			if !errors.Is(err, ErrBodyTooLarge) {
				t.Fatalf("error = %v, want ErrBodyTooLarge", err)
			}
			if errors.Is(err, ErrDecode) || httputil.IsRetryable(err) {
				t.Errorf("error = %v should be neither a decode fault nor retryable", err)
			}
		})
	}
}

func TestClientConnectionErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := newTestClient(t, Options{Timeout: time.Second})
	_, err := c.GetText(context.Background(), url, nil)
	if !errors.Is(err, ErrNetwork) || !httputil.IsRetryable(err) {
		t.Errorf("error = %v, want retryable ErrNetwork", err)
	}
}

func TestClientDecodeError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"results": [`)
	}))
	defer server.Close()

	c := newTestClient(t, Options{})
	var v map[string]any
	err := c.GetJSON(context.Background(), server.URL, nil, &v)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if httputil.IsRetryable(err) {
		t.Error("decode errors must not be retryable")
	}

	// The malformed body must not be served from cache.
	_ = c.GetJSON(context.Background(), server.URL, nil, &v)
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}

func TestClientCaching(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, "body")
	}))
	defer server.Close()

	ctx := context.Background()
	c := newTestClient(t, Options{})
	for range 3 {
		got, err := c.GetText(ctx, server.URL, nil)
		if err != nil || got != "body" {
			t.Fatalf("GetText() = %q, %v", got, err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server calls = %d, want 1", n)
	}

	if err := c.Invalidate(ctx, server.URL); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetText(ctx, server.URL, nil); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls after Invalidate = %d, want 2", n)
	}
}

func TestClientNamespacesDoNotCollide(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("X-Source"))
	}))
	defer server.Close()

	ctx := context.Background()
	base := newTestClient(t, Options{})
	a := base.WithNamespace("a")
	b := base.WithNamespace("b")

	gotA, _ := a.GetText(ctx, server.URL, map[string]string{"X-Source": "a"})
	gotB, _ := b.GetText(ctx, server.URL, map[string]string{"X-Source": "b"})
	if gotA != "a" || gotB != "b" {
		t.Errorf("got %q and %q, want distinct cache entries", gotA, gotB)
	}
}

func TestClientHooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	h := &countingHooks{}
	c := newTestClient(t, Options{HTTPHooks: h, CacheHooks: h})
	ctx := context.Background()
	_, _ = c.GetText(ctx, server.URL, nil)
	_, _ = c.GetText(ctx, server.URL, nil)

	if h.requests != 1 || h.responses != 1 {
		t.Errorf("requests/responses = %d/%d, want 1/1", h.requests, h.responses)
	}
	if h.hits != 1 || h.misses != 1 || h.sets != 1 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/1", h.hits, h.misses, h.sets)
	}
}

func ExampleNormalizePkgName() {
	fmt.Println(NormalizePkgName("Flask_SQLAlchemy"))
	// Output: flask-sqlalchemy
}

type countingHooks struct {
	requests, responses, errors int
	hits, misses, sets          int
}

func (h *countingHooks) OnRequest(context.Context, string, string, string) { h.requests++ }
func (h *countingHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
	h.responses++
}
func (h *countingHooks) OnError(context.Context, string, string, string, error) { h.errors++ }
func (h *countingHooks) OnCacheHit(context.Context, string)                     { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)                    { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int)                { h.sets++ }
