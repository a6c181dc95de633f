package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package label from configuration.
//
// Names become cache keys, run-history keys and report lines, so the rules
// are conservative:
//   - No empty names
//   - No control characters
//   - No '=' (the legacy config separator)
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	if strings.Contains(name, "=") {
		return New(ErrCodeInvalidPackage, "package name contains invalid character %q", "=")
	}

	return nil
}

// ValidateURL validates a source URL. It must parse, use http or https and
// name a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL %q has no host", rawURL)
	}

	return nil
}

// ValidateFormat checks a report format name.
func ValidateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json)", format)
}
