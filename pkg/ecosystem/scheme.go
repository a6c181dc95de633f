package ecosystem

import (
	"fmt"
	"strings"
)

// Scheme is a version-publishing convention. Each scheme has exactly one
// [Policy] in the policy table.
type Scheme string

const (
	SchemeGeneric      Scheme = "generic"       // semantic or decimal versions found in free text
	SchemeImage        Scheme = "image"         // official images without a dedicated rule
	SchemeRuntimeImage Scheme = "runtime-image" // language runtimes with build-variant tags
	SchemeRolling      Scheme = "rolling"       // 3.minor[.patch], e.g. alpine
	SchemeNumbered     Scheme = "numbered"      // bare release numbers, e.g. fedora
	SchemeYYMM         Scheme = "yymm"          // YY.MM with codenames, e.g. ubuntu
	SchemeCodename     Scheme = "codename"      // major[.minor] with codenames, e.g. debian
	SchemeSuffixed     Scheme = "suffixed"      // semver with toolchain suffix, e.g. elixir
	SchemeLoose        Scheme = "loose"         // major.minor[.patch] anywhere in the tag, e.g. swift
	SchemeStrict       Scheme = "strict"        // major.minor.patch[.build], e.g. hashicorp
)

var imageSchemes = map[string]Scheme{
	"alpine": SchemeRolling,
	"fedora": SchemeNumbered,
	"ubuntu": SchemeYYMM,
	"debian": SchemeCodename,
	"elixir": SchemeSuffixed,
	"swift":  SchemeLoose,
	"node":   SchemeRuntimeImage,
	"python": SchemeRuntimeImage,
	"ruby":   SchemeRuntimeImage,
}

// SchemeFor derives the version scheme of a descriptor from its kind and,
// for Docker Hub images, from the image name.
func SchemeFor(d Descriptor) Scheme {
	switch d.Kind {
	case KindDockerHub:
		if s, ok := imageSchemes[d.Image()]; ok {
			return s
		}
		return SchemeImage
	case KindHashiCorp:
		return SchemeStrict
	default:
		return SchemeGeneric
	}
}

// ParseScheme converts a configuration string into a Scheme.
func ParseScheme(s string) (Scheme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := policies[Scheme(s)]; ok {
		return Scheme(s), nil
	}
	return "", fmt.Errorf("unknown version scheme %q", s)
}
