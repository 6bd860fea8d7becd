// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Logger: Diagnostics sink injected into every converter
//   - AnnotationBundle: Forward-only reader over an Annofab annotation ZIP or directory
//   - AnnotationWriter: Destination of converted Annofab annotation files
//   - CommandRunner: Runs the annofabcli executable
//   - ConfigStore: Read-only view of the user's settings
//
// # Optional Interfaces
//
// These can be nil - the converters degrade gracefully:
//
//   - MaskImageCodec: Reads and writes Annofab mask images. Without it, raster
//     annotations cannot be converted in either direction.
//   - IDGenerator: Generates annotation IDs. Defaults to random UUIDs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
