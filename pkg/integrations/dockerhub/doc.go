// Package dockerhub reads tag listings of official images from the Docker
// Hub v2 API.
//
// A listing is requested with several orderings (see [Queries]) because no
// single page of the API is guaranteed to contain the newest tag: the broad
// catalog first, then the most recently updated tags, then a reverse
// lexical ordering. Every response is checked against a JSON schema before
// it is decoded; a response that does not match is reported as
// [integrations.ErrDecode].
//
// [integrations.ErrDecode]: github.com/matzehuels/tagscout/pkg/integrations.ErrDecode
package dockerhub
