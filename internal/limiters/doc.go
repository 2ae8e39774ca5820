// Package limiters provides the attempt counters the verification core uses to
// decide when an identity has submitted too many wrong codes or passwords.
//
// # Limiters
//
//   - [AttemptTracker]: per-identity, per-MFA-method incorrect code counter.
//   - [PasswordAttempts]: per-identity incorrect password counter.
//
// Both keep their counters as plain decimal strings in a [stores.CodeStore]
// with a sliding TTL: every increment rewrites the TTL, so a counter stays
// elevated for as long as failures keep arriving.
//
// # Concurrency
//
// The default increment is read, add one, write. Two concurrent increments for
// the same key can both read N and both write N+1, so the counter undercounts
// under contention. Set AtomicIncrements to use the store's INCR capability
// instead when exact counting is required.
//
// # Architecture boundaries
//
// Policy thresholds are not applied here. Validators compare the returned
// counts with their configured limits and decide what to block.
//
// # What this package must NOT do
//
//   - Import authcore or any sibling internal package except internal/stores.
//   - Make policy decisions beyond counting.
package limiters
