// Package rubygems lists gem versions from the RubyGems API.
//
// Gem names are normalized to lowercase. Platform-specific builds (for
// example x86_64-linux) are folded into the plain ruby release.
package rubygems
