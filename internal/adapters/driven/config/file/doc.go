// Package file provides the TOML configuration file adapter.
//
// A missing file is an empty configuration; every value can also be given as a flag.
package file
