// Package ecosystem describes where a package publishes its versions and how
// raw tags from that place are turned into comparable versions.
//
// Two closed enumerations drive everything:
//
//   - [Kind] names the source family (Docker Hub, GitHub releases, PyPI, npm,
//     the HashiCorp release tree, opkg-style directory listings, generic pages).
//     It decides which acquisition strategies run.
//   - [Scheme] names the version convention ("3.x.y" rolling images, bare
//     Fedora release numbers, Ubuntu YY.MM, Debian codenames, ...). It selects
//     a [Policy] from a flat table: validity pattern, numeric range, codename
//     aliases, exclusion keywords and the extract function.
//
// Extraction has two interchangeable variants behind the [Extractor]
// interface: [PolicyExtractor] applies the built-in rule of a scheme, and
// [FuncExtractor] applies a caller-supplied pure function. Both reject raw
// text containing placeholder keywords such as "latest" before extracting.
package ecosystem
