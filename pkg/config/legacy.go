package config

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/matzehuels/tagscout/pkg/errors"
)

var legacyLine = regexp.MustCompile(`^(.+?)\s*=\s*(.+)$`)

func parseLegacy(r io.Reader) (*File, error) {
	f := &File{}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := legacyLine.FindStringSubmatch(line)
		if m == nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("line %d: invalid config line format: %s", n, line))
			continue
		}
		f.Packages = append(f.Packages, Package{
			Name: strings.TrimSpace(m[1]),
			URL:  strings.TrimSpace(m[2]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return f, nil
}
