// Package internal contains helper utilities that are intentionally private to authcore,
// including secure code generation and identity hashing.
//
// # Sub-packages
//
//   - limiters: attempt counters for MFA codes and passwords
//   - logging: zap logger construction from configuration
//   - stores: Redis-backed code store, circuit breaker and key namespaces
//   - totp: RFC 6238 verification with a configurable skew window
//
// # What this package must NOT do
//
//   - Export types that appear in the public authcore API.
//   - Be imported by any package outside the authcore module.
package internal
