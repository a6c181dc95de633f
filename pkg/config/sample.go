package config

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tagscout/pkg/errors"
)

// samplePackages is the package list of generated sample configurations.
var samplePackages = []Package{
	{Name: "opkg", URL: "https://downloads.yoctoproject.org/releases/opkg/"},
	{Name: "alpine", URL: "https://hub.docker.com/_/alpine"},
	{Name: "fedora", URL: "https://hub.docker.com/_/fedora"},
	{Name: "ubuntu", URL: "https://hub.docker.com/_/ubuntu"},
	{Name: "node", URL: "https://github.com/nodejs/node/releases"},
	{Name: "terraform", URL: "https://releases.hashicorp.com/terraform/"},
	{Name: "requests", URL: "https://pypi.org/project/requests/"},
	{Name: "react", URL: "https://www.npmjs.com/package/react"},
}

// Sample returns a sample configuration in the given format.
func Sample(format Format) (string, error) {
	var b strings.Builder
	switch format {
	case FormatLegacy, "":
		b.WriteString("# Package Configuration File\n")
		b.WriteString("# Format: package_name = url\n#\n# Examples:\n")
		for _, p := range samplePackages {
			fmt.Fprintf(&b, "%s = %s\n", p.Name, p.URL)
		}
		b.WriteString("\n# You can also specify custom packages:\n")
		b.WriteString("# my-custom-package = https://example.com/releases/\n")

	case FormatTOML:
		b.WriteString("# Package Configuration File\n\n")
		b.WriteString("[settings]\ntimeout = \"10s\"\nretry_budget = 3\ndelay = \"1s\"\nwindow = 3\n")
		for _, p := range samplePackages {
			fmt.Fprintf(&b, "\n[[package]]\nname = %q\nurl = %q\n", p.Name, p.URL)
		}
		b.WriteString("\n[[package]]\nname = \"my-custom-package\"\nurl = \"https://example.com/releases/\"\nkind = \"generic\"\n")
		b.WriteString("[package.hints]\nversion_selector = \".release h2\"\ndate_selector = \".release time\"\n")

	case FormatYAML:
		b.WriteString("# Package Configuration File\n\n")
		b.WriteString("settings:\n  timeout: 10s\n  retry_budget: 3\n  delay: 1s\n  window: 3\n\npackages:\n")
		for _, p := range samplePackages {
			fmt.Fprintf(&b, "  - name: %s\n    url: %s\n", p.Name, p.URL)
		}
		b.WriteString("  - name: my-custom-package\n    url: https://example.com/releases/\n    kind: generic\n")
		b.WriteString("    hints:\n      version_selector: .release h2\n      date_selector: .release time\n")

	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	return b.String(), nil
}

// SampleFileName returns the conventional file name for a sample in format.
func SampleFileName(format Format) string {
	switch format {
	case FormatTOML:
		return "config.sample.toml"
	case FormatYAML:
		return "config.sample.yaml"
	}
	return "config.sample.txt"
}
