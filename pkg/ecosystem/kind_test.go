package ecosystem

import "testing"

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Kind
	}{
		{"alpine", "https://hub.docker.com/_/alpine", KindDockerHub},
		{"node", "https://github.com/nodejs/node/releases", KindGitHubReleases},
		{"terraform", "https://releases.hashicorp.com/terraform/", KindHashiCorp},
		{"python", "https://pypi.org/project/python/", KindPyPI},
		{"react", "https://www.npmjs.com/package/react", KindNPM},
		{"opkg", "https://downloads.yoctoproject.org/releases/opkg/", KindOpkg},
		{"serde", "https://crates.io/crates/serde", KindCrates},
		{"rails", "https://rubygems.org/gems/rails", KindRubyGems},
		{"github.com/spf13/cobra", "https://pkg.go.dev/github.com/spf13/cobra", KindGoProxy},
		{"com.google.guava:guava", "https://central.sonatype.com/artifact/com.google.guava/guava", KindMaven},
		{"monolog/monolog", "https://packagist.org/packages/monolog/monolog", KindPackagist},
		{"my-vault", "https://example.com/vault", KindHashiCorp},
		{"redis", "https://example.com/redis", KindDockerHub},
		{"widget", "https://example.com/releases/", KindGeneric},
		{"github-no-releases", "https://github.com/owner/repo", KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.name, tt.url); got != tt.want {
				t.Errorf("DetectKind(%q, %q) = %q, want %q", tt.name, tt.url, got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"docker-hub", KindDockerHub, false},
		{"ALPINE", KindDockerHub, false},
		{" github-releases ", KindGitHubReleases, false},
		{"opkg", KindOpkg, false},
		{"cargo", KindCrates, false},
		{"maven", KindMaven, false},
		{"cvs", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDescriptorImage(t *testing.T) {
	tests := []struct {
		name, url, want string
	}{
		{"alpine", "https://hub.docker.com/_/alpine", "alpine"},
		{"my-linux", "https://hub.docker.com/_/Fedora/tags", "fedora"},
		{"debian", "https://hub.docker.com/r/library/debian", "debian"},
		{"Ubuntu", "https://example.com/", "ubuntu"},
	}
	for _, tt := range tests {
		d := NewDescriptor(tt.name, tt.url, KindDockerHub)
		if got := d.Image(); got != tt.want {
			t.Errorf("Image() for %q = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestNewDescriptorScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Scheme
	}{
		{"alpine", "https://hub.docker.com/_/alpine", SchemeRolling},
		{"fedora", "https://hub.docker.com/_/fedora", SchemeNumbered},
		{"ubuntu", "https://hub.docker.com/_/ubuntu", SchemeYYMM},
		{"debian", "https://hub.docker.com/_/debian", SchemeCodename},
		{"elixir", "https://hub.docker.com/_/elixir", SchemeSuffixed},
		{"swift", "https://hub.docker.com/_/swift", SchemeLoose},
		{"node", "https://hub.docker.com/_/node", SchemeRuntimeImage},
		{"nginx", "https://hub.docker.com/_/nginx", SchemeImage},
		{"terraform", "https://releases.hashicorp.com/terraform/", SchemeStrict},
		{"react", "https://www.npmjs.com/package/react", SchemeGeneric},
	}
	for _, tt := range tests {
		d := NewDescriptor(tt.name, tt.url, "")
		if d.Scheme != tt.want {
			t.Errorf("%s: Scheme = %q, want %q", tt.name, d.Scheme, tt.want)
		}
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		d       Descriptor
		wantErr bool
	}{
		{NewDescriptor("alpine", "https://hub.docker.com/_/alpine", ""), false},
		{NewDescriptor("", "https://hub.docker.com/_/alpine", ""), true},
		{NewDescriptor("broken", "not a url", ""), true},
	}
	for _, tt := range tests {
		if err := tt.d.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.d, err, tt.wantErr)
		}
	}
}
