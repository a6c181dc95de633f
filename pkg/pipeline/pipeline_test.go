package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagscout/pkg/acquire"
	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/ecosystem"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/session"
)

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.Timeout != 10*time.Second || o.RetryBudget != 3 || o.Delay != time.Second || o.Window != 3 {
		t.Errorf("defaults = %+v", o)
	}
	if o.BackoffBase != o.Delay {
		t.Errorf("backoff base = %v, want the delay", o.BackoffBase)
	}
	if o.Format != "text" || o.Logger == nil {
		t.Errorf("format = %q, logger = %v", o.Format, o.Logger)
	}
}

func TestValidateAndSetDefaultsOverrides(t *testing.T) {
	o := Options{Timeout: 2 * time.Second, RetryBudget: 5, Delay: 100 * time.Millisecond, Window: 8, Format: "json"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Timeout != 2*time.Second || o.RetryBudget != 5 || o.Delay != 100*time.Millisecond || o.Window != 8 {
		t.Errorf("overrides lost: %+v", o)
	}
	if o.BackoffBase != 100*time.Millisecond {
		t.Errorf("backoff base = %v", o.BackoffBase)
	}
}

func TestValidateAndSetDefaultsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative timeout", Options{Timeout: -time.Second}},
		{"negative budget", Options{RetryBudget: -1}},
		{"huge window", Options{Window: MaxWindow + 1}},
		{"bad format", Options{Format: "svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) == "" {
				t.Errorf("error %v carries no code", err)
			}
		})
	}
}

func TestApplySettings(t *testing.T) {
	o := Options{Window: 5}
	o.Apply(config.Settings{Window: 2, Delay: 3 * time.Second, RetryBudget: 4})
	if o.Window != 5 {
		t.Errorf("explicit window overridden: %d", o.Window)
	}
	if o.Delay != 3*time.Second || o.RetryBudget != 4 {
		t.Errorf("file settings not applied: %+v", o)
	}
}

// hub serves Docker Hub tag listings; version is read at request time.
type hub struct {
	version atomic.Value
}

func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/v2/repositories/library/alpine/") {
		http.NotFound(w, r)
		return
	}
	v := h.version.Load().(string)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count": 2,
		"results": []map[string]string{
			{"name": v, "last_updated": "2025-07-05T10:00:00Z"},
			{"name": "latest", "last_updated": "2025-07-05T10:00:00Z"},
		},
	})
}

func testOptions(srvURL string) Options {
	urls := map[ecosystem.Kind]string{}
	for _, k := range ecosystem.Kinds {
		urls[k] = srvURL
	}
	return Options{
		Delay:        -1,
		BaseURLs:     urls,
		ReleasePages: map[string]acquire.ReleasePage{},
		Logger:       log.New(io.Discard),
		Now:          func() time.Time { return time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC) },
		Sleep:        func(ctx context.Context, d time.Duration) error { return ctx.Err() },
	}
}

func TestRunnerExecute(t *testing.T) {
	h := &hub{}
	h.version.Store("3.22.0")
	srv := httptest.NewServer(h)
	defer srv.Close()

	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, store, log.New(io.Discard))

	ds := []ecosystem.Descriptor{
		ecosystem.NewDescriptor("alpine", srv.URL+"/_/alpine", ecosystem.KindDockerHub),
		ecosystem.NewDescriptor("ghost", srv.URL+"/_/ghost", ecosystem.KindDockerHub),
	}
	ctx := context.Background()

	first, err := runner.Execute(ctx, ds, testOptions(srv.URL))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.Previous != nil {
		t.Error("first run should have no previous run")
	}
	out := first.Run.Outcomes
	if out[0].Version() != "3.22.0" || out[0].Resolved.Strategy != "docker-api" {
		t.Errorf("alpine = %+v", out[0])
	}
	if out[1].OK() || out[1].Attempts != DefaultRetryBudget || !strings.HasPrefix(out[1].FailureReason, "failed after 3 attempts: ") {
		t.Errorf("ghost = %+v", out[1])
	}
	if !first.Failed() {
		t.Error("Failed() = false with an unresolved package")
	}

	h.version.Store("3.23.0")
	later := testOptions(srv.URL)
	later.Now = func() time.Time { return time.Date(2025, 7, 11, 12, 0, 0, 0, time.UTC) }
	second, err := runner.Execute(ctx, ds, later)
	if err != nil {
		t.Fatal(err)
	}
	if second.Previous == nil || second.Previous.ID != first.Run.ID {
		t.Fatal("second run should compare against the first")
	}
	if len(second.Changes) != 1 || second.Changes[0].From != "3.22.0" || second.Changes[0].To != "3.23.0" {
		t.Errorf("changes = %+v", second.Changes)
	}

	runs, err := runner.History(ctx, 0)
	if err != nil || len(runs) != 2 {
		t.Fatalf("History() = %d runs, %v", len(runs), err)
	}
	if runs[0].ID != second.Run.ID {
		t.Error("History() should list the newest run first")
	}
}

func TestRunnerRetriesClientErrors(t *testing.T) {
	h := &hub{}
	h.version.Store("3.22.0")
	var forbidden atomic.Bool
	forbidden.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if forbidden.Load() {
			if r.URL.Path == "/_/alpine/tags" {
				forbidden.Store(false)
			}
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	}))
	defer srv.Close()

	runner := NewRunner(nil, nil, log.New(io.Discard))
	out, err := runner.Resolve(context.Background(),
		[]ecosystem.Descriptor{ecosystem.NewDescriptor("alpine", srv.URL+"/_/alpine", ecosystem.KindDockerHub)},
		testOptions(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if !out[0].OK() || out[0].Version() != "3.22.0" {
		t.Fatalf("alpine = %+v, want 3.22.0 after a retry", out[0])
	}
	if out[0].Attempts != 2 {
		t.Errorf("attempts = %d, want 2", out[0].Attempts)
	}
}

func TestRunnerResolveWithoutStore(t *testing.T) {
	h := &hub{}
	h.version.Store("3.21.0")
	srv := httptest.NewServer(h)
	defer srv.Close()

	runner := NewRunner(nil, nil, nil)
	out, err := runner.Resolve(context.Background(),
		[]ecosystem.Descriptor{ecosystem.NewDescriptor("alpine", srv.URL+"/_/alpine", ecosystem.KindDockerHub)},
		testOptions(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Version() != "3.21.0" {
		t.Errorf("outcomes = %+v", out)
	}

	latest, err := runner.Latest(context.Background())
	if latest != nil || err != nil {
		t.Errorf("Latest() without a store = %v, %v", latest, err)
	}
}

func TestOpenCacheAndStore(t *testing.T) {
	ctx := context.Background()

	c, err := OpenCache(ctx, "none")
	if err != nil || c == nil {
		t.Fatalf("OpenCache(none) = %v, %v", c, err)
	}
	if _, err := OpenCache(ctx, t.TempDir()); err != nil {
		t.Errorf("OpenCache(dir) error: %v", err)
	}

	s, err := OpenStore(ctx, "none")
	if err != nil || s != nil {
		t.Errorf("OpenStore(none) = %v, %v", s, err)
	}
	s, err = OpenStore(ctx, t.TempDir())
	if err != nil || s == nil {
		t.Errorf("OpenStore(dir) = %v, %v", s, err)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := CacheDir()
	if err != nil || dir != "/tmp/xdg/tagscout" {
		t.Errorf("CacheDir() = %q, %v", dir, err)
	}
}
