// Package pypi reads release histories from the Python Package Index JSON
// API (https://pypi.org/pypi/<project>/json).
//
//	c := pypi.NewClient(base, "")
//	p, err := c.FetchProject(ctx, "requests")
//
// Project names are normalized following PEP 503 before the request.
package pypi
