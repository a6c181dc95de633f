// Package npm reads package documents from the npm registry: every
// published version with its publish time and the "latest" dist-tag.
package npm
