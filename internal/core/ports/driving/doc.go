// Package driving defines the interfaces that the CLI calls INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Services in internal/core/services implement them.
//
// # Import Rules
//
//   - Can Import: domain and driven packages
//   - Cannot Import: Any adapter package
package driving
