package acquire

import (
	"context"
	"net/http"
	"testing"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
)

func TestHashiCorpAPI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/releases/terraform", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`[
			{"version": "1.10.0-alpha20240807", "is_prerelease": true, "timestamp_created": "2024-08-07T10:00:00Z"},
			{"version": "1.9.4", "timestamp_created": "2024-08-07T09:00:00Z"},
			{"version": "1.9.3", "timestamp_created": "2024-07-24T09:00:00Z"}
		]`))
	})
	env, _ := newTestEnv(t, mux)
	d := ecosystem.NewDescriptor("terraform", "https://releases.hashicorp.com/terraform/", "")

	res, err := env.Resolve(context.Background(), d)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Version != "1.9.4" || res.Strategy != "hashicorp-api" {
		t.Errorf("got %s from %s, want 1.9.4 from hashicorp-api", res.Version, res.Strategy)
	}
	if res.Locator != "https://releases.hashicorp.com/terraform/1.9.4/" {
		t.Errorf("locator = %q", res.Locator)
	}
	if got := ecosystem.FormatDate(res.ReleaseDate); got != "2024-08-07" {
		t.Errorf("release date = %q", got)
	}
}

func TestHashiCorpTree(t *testing.T) {
	page := `<html><body><ul>
<li><a href="../">../</a></li>
<li><a href="/vault/1.18.0-rc1/">vault_1.18.0-rc1</a></li>
<li><a href="/vault/1.17.3+ent/">vault_1.17.3+ent</a></li>
<li><a href="/vault/1.17.3/">vault_1.17.3</a></li>
<li><a href="/vault/1.9.10/">vault_1.9.10</a></li>
</ul></body></html>`
	env, url := newTestEnv(t, fakeHub{pages: map[string]string{"/vault/": page}})
	d := ecosystem.NewDescriptor("vault", url+"/vault/", ecosystem.KindHashiCorp)

	res, err := env.Resolve(context.Background(), d)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Version != "1.17.3" || res.Strategy != "hashicorp-tree" {
		t.Errorf("got %s from %s, want 1.17.3 from hashicorp-tree", res.Version, res.Strategy)
	}
	if want := url + "/vault/1.17.3/"; res.Locator != want {
		t.Errorf("locator = %q, want %q", res.Locator, want)
	}
}

func TestOpkgListing(t *testing.T) {
	page := `<html><body><h1>Index of /opkg/</h1><pre>
<a href="../">Parent Directory</a>
<a href="1.2.0/">1.2.0/</a>   2024-01-10 10:00
<a href="1.10.0/">1.10.0/</a>  2025-02-03 10:00
<a href="1.9.0/">1.9.0/</a>   2024-11-20 10:00
</pre></body></html>`
	env, url := newTestEnv(t, fakeHub{pages: map[string]string{"/opkg/": page}})
	d := ecosystem.NewDescriptor("opkg", url+"/opkg/", "")

	res, err := env.Resolve(context.Background(), d)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Version != "1.10.0" || res.Strategy != "listing" {
		t.Errorf("got %s from %s, want 1.10.0 from listing", res.Version, res.Strategy)
	}
	if want := url + "/opkg/1.10.0/"; res.Locator != want {
		t.Errorf("locator = %q, want %q", res.Locator, want)
	}
}

func TestGenericSelectors(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		hints       ecosystem.Hints
		want        string
		wantDate    string
		wantLocator string
	}{
		{
			name: "headers win over later groups",
			page: `<html><body><nav><ul><li>Docs 2.0</li></ul></nav><h1>Acme 5.1.2</h1><table><tr><td>5.1.3</td></tr></table></body></html>`,
			want: "5.1.2",
		},
		{
			name: "version class",
			page: `<html><body><p class="current-version">Current: 3.4.1</p><span>old 2.9.9</span></body></html>`,
			want: "3.4.1",
		},
		{
			name: "hinted selectors",
			page: `<html><body>
<h2 class="ver">Version 4.10.0</h2><p class="date">Released 2025-03-01</p><a class="dl" href="/dl/4.10.0.tar.gz">download</a>
<h2 class="ver">Version 4.9.0</h2><p class="date">Released 2025-01-11</p>
</body></html>`,
			hints:       ecosystem.Hints{VersionSelector: ".ver", DateSelector: ".date", LinkSelector: "a.dl"},
			want:        "4.10.0",
			wantDate:    "2025-03-01",
			wantLocator: "/dl/4.10.0.tar.gz",
		},
		{
			name:  "pattern hint",
			page:  `<html><body><ul><li>release-7.4</li><li>release-7.12</li><li>build 9.9.9</li></ul></body></html>`,
			hints: ecosystem.Hints{Pattern: `release-(\d+\.\d+)`},
			want:  "7.12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, url := newTestEnv(t, fakeHub{pages: map[string]string{"/downloads": tt.page}})
			d := ecosystem.NewDescriptor("acme", url+"/downloads", ecosystem.KindGeneric).WithHints(tt.hints)

			res, err := env.Resolve(context.Background(), d)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if res.Version != tt.want || res.Strategy != "selectors" {
				t.Errorf("got %s from %s, want %s from selectors", res.Version, res.Strategy, tt.want)
			}
			if got := ecosystem.FormatDate(res.ReleaseDate); got != tt.wantDate {
				t.Errorf("release date = %q, want %q", got, tt.wantDate)
			}
			if tt.wantLocator != "" && res.Locator != url+tt.wantLocator {
				t.Errorf("locator = %q, want %q", res.Locator, url+tt.wantLocator)
			}
		})
	}
}

func TestGenericNothingFound(t *testing.T) {
	env, url := newTestEnv(t, fakeHub{pages: map[string]string{"/downloads": `<html><body><p>Coming soon</p></body></html>`}})
	d := ecosystem.NewDescriptor("acme", url+"/downloads", ecosystem.KindGeneric)

	if _, err := env.Resolve(context.Background(), d); err != ErrNoVersionFound {
		t.Errorf("err = %v, want ErrNoVersionFound", err)
	}
}
