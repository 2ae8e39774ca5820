// Package journey holds the user journey state machine and the session record
// it advances.
//
// The transition table is data. [StateMachine.Transition] looks up the
// (state, action) pair and fails closed with [ErrInvalidStateTransition] when
// the pair is absent, leaving the caller's state untouched. The table is
// copied on construction and never changes afterwards, so a *StateMachine
// is safe to share between goroutines.
package journey
