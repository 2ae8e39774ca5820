// Package authcore verifies one-time codes for sign-in, registration,
// password reset and account recovery, and moves each user session through
// the journey state machine in package journey.
//
// An [Engine] is assembled with [New]:
//
//	engine, err := authcore.New().
//		WithConfig(cfg).
//		WithRedis(client).
//		WithUserProvider(users).
//		WithNotifier(notifier).
//		WithLogger(log).
//		Build()
//
// Engine methods are safe for concurrent use after Build. A
// *journey.Session is owned by one request at a time; persisting it between
// requests is the caller's job.
//
// # Outcomes and errors
//
// Code operations (SendCode, VerifyCode, VerifyMfaCode, RequestPasswordReset)
// report user-facing results, including an action the journey does not allow
// from the current state, as an [Outcome] whose Rejection carries the kind
// and numeric code for the frontend. Their error return is reserved for hard
// failures: an unreachable store ([ErrStoreUnavailable]), a failed
// notification, or a missing dependency. Transition, CheckUserExists,
// RecordPasswordCheck and StartAccountRecovery return an error wrapping
// [ErrInvalidStateTransition] for an illegal step.
//
// # Records
//
// Codes, block flags and attempt counters live in Redis under
// "<prefix><sha256(lowercased email)>" keys and are cleaned up only by TTL.
package authcore
