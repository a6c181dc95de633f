// Package crates lists crate versions from the crates.io registry API.
package crates
