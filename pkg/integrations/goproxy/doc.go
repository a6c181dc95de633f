// Package goproxy lists Go module versions through the module proxy
// protocol (https://go.dev/ref/mod#goproxy-protocol).
//
//	c := goproxy.NewClient(base, "")
//	releases, err := c.ListReleases(ctx, "github.com/spf13/cobra")
//
// Module paths with uppercase letters are escaped as the protocol requires
// ("github.com/BurntSushi/toml" is requested as
// "github.com/!burnt!sushi/toml").
package goproxy
