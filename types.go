package authcore

import (
	"context"

	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// UserProvider is the engine's view of the user store. UserCredentials
// returns nil, nil for an unknown user.
type UserProvider interface {
	UserExists(ctx context.Context, email string) (bool, error)
	UserCredentials(ctx context.Context, email string) (*mfa.UserCredentials, error)
	// SubjectID is the stable identifier embedded in a password reset link.
	SubjectID(ctx context.Context, email string) (string, error)
}

// Notification is one message for the Notifier to deliver. Exactly one of
// Code and ResetToken is set.
type Notification struct {
	Type        mfa.NotificationType
	Destination string
	Code        string
	ResetToken  string
}

// Notifier delivers codes and links (email, SMS). Delivery is the caller's
// concern; the engine only hands over the message.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Client identifies the relying party a request came from.
type Client struct {
	ID string
	// TestClient marks an automated test client. It only has an effect when
	// Config.TestClients is enabled.
	TestClient bool
}

// CodeRequest asks for a new code on a channel.
type CodeRequest struct {
	NotificationType mfa.NotificationType
	// Destination is the phone number for SMS channels. Email channels use
	// the session's address when empty.
	Destination string
	Client      Client
}

// Outcome is the result of a journey step. Rejection is nil when the step
// succeeded; State is the session's state afterwards either way.
type Outcome struct {
	State     journey.State
	Rejection *mfa.Rejection
}

// OK reports whether the step succeeded.
func (o *Outcome) OK() bool {
	return o != nil && o.Rejection == nil
}

// PasswordOutcome is the result of [Engine.RecordPasswordCheck].
type PasswordOutcome struct {
	State  journey.State
	Locked bool
}

// RecoveryOutcome is the result of [Engine.StartAccountRecovery]. Permitted
// is false when a recovery block sent the session to ACCOUNT_RECOVERY_BLOCKED.
type RecoveryOutcome struct {
	State     journey.State
	Permitted bool
}

// AuthAppSecret is a freshly provisioned authenticator-app credential. The
// caller stores Secret as the AUTH_APP credential and shows URL as a QR code.
type AuthAppSecret struct {
	Secret string
	URL    string
}
