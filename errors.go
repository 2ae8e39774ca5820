package authcore

import (
	"errors"

	"github.com/digital-identity/authcore/internal/stores"
	"github.com/digital-identity/authcore/journey"
)

var (
	// ErrEngineNotReady is returned by every operation on a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrRedisRequired is returned by Build without a Redis client.
	ErrRedisRequired = errors.New("redis client required")
	// ErrUserProviderRequired is returned by Build without a user provider.
	ErrUserProviderRequired = errors.New("user provider required")
	// ErrNotifierRequired is returned by Build without a notifier.
	ErrNotifierRequired = errors.New("notifier required")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrSessionRequired is returned when an operation is given a nil session.
	ErrSessionRequired = errors.New("session required")
	// ErrSessionEmailMissing is returned when a code operation runs before the
	// session has an email address.
	ErrSessionEmailMissing = errors.New("session has no email address")
	// ErrDestinationRequired is returned when a code request has nowhere to go.
	ErrDestinationRequired = errors.New("notification destination required")
	// ErrNotificationFailed wraps a Notifier failure.
	ErrNotificationFailed = errors.New("notification delivery failed")
	// ErrResetTokenInvalid is returned for unknown, expired or spent reset links.
	ErrResetTokenInvalid = errors.New("reset token invalid")
	// ErrUnblockNotPossible is returned when there is no entry block to lift.
	ErrUnblockNotPossible = errors.New("no code entry block present")
	// ErrUserNotFound is returned when an operation needs a registered user.
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable marks a code store failure, including an open breaker.
	ErrStoreUnavailable = stores.ErrStoreUnavailable
	// ErrInvalidStateTransition marks a rejected journey transition.
	ErrInvalidStateTransition = journey.ErrInvalidStateTransition
)
