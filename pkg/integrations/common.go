package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made through a [Client].
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound marks an HTTP 404. It always comes wrapped together with
	// [ErrNetwork] and is retryable like every other non-2xx status.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures: timeouts, connection
	// errors and non-2xx status codes. All of them are wrapped in
	// [httputil.RetryableError].
	ErrNetwork = errors.New("network error")

	// ErrBodyTooLarge is returned when a response body exceeds the client's
	// size limit. Retrying does not help, so it is not retryable.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrDecode is returned when a response body is not the expected
	// structured document (malformed JSON or a schema mismatch).
	ErrDecode = errors.New("decode error")
)

// NewHTTPClient creates an HTTP client with the given timeout, or
// [DefaultTimeout] when timeout is not positive.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NormalizePkgName converts a package name to its canonical form following
// PEP 503 (lowercase, underscores to hyphens).
func NormalizePkgName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// URLEncode percent-encodes s for use in a query string.
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes s for use as a single path segment
// ("@scope/pkg" becomes "@scope%2Fpkg").
func PathEscape(s string) string { return url.PathEscape(s) }

// Release is one published version as reported by a registry API.
type Release struct {
	Version    string `json:"version"`
	Published  string `json:"published,omitempty"` // publish timestamp text, empty when unknown
	Prerelease bool   `json:"prerelease,omitempty"`
	Yanked     bool   `json:"yanked,omitempty"` // withdrawn by the publisher
	URL        string `json:"url,omitempty"`
}
