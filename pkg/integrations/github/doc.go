// Package github reads release feeds from the GitHub REST API.
//
// # Authentication
//
// A personal access token is optional. Without one the API allows 60
// requests per hour, with one 5000. The CLI reads it from GITHUB_TOKEN.
//
// # URL Parsing
//
// [ParseRepoURL] turns a release page URL from configuration into the
// owner/repository pair the API expects.
package github
