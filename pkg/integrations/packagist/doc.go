// Package packagist lists PHP package releases from the Composer v2
// metadata endpoint (https://repo.packagist.org/p2/<vendor>/<name>.json).
package packagist
