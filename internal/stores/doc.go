// Package stores provides the Redis-backed, short-lived key/value layer used by
// the verification core: one-time codes, block flags, reset-link tokens and the
// raw cells behind the attempt counters.
//
// # Design
//
// Every key is a fixed namespace prefix followed by the hex SHA-256 of the
// normalized identity. Values are plain strings with a TTL; expiry is the only
// cleanup mechanism apart from explicit deletes on success. There are no
// multi-key transactions. A backend failure is wrapped in ErrStoreUnavailable
// and returned as is: nothing in this package retries.
//
// BreakerStore wraps any CodeStore in a circuit breaker so a dead Redis fails
// fast instead of stacking up timeouts on every request.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT generate codes, count
// attempts against limits, or decide whether a submitted code is correct.
//
// # What this package must NOT do
//
//   - Import authcore or any sibling internal package.
//   - Use a raw identity as a key.
//   - Log stored values.
package stores
