// Package file provides filesystem implementations of the storage ports and the
// JSON document readers and writers used by the CLI.
//
// JSON is written with two-space indentation and without HTML escaping, so label
// names in any script stay readable.
package file
