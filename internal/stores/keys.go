package stores

import "github.com/digital-identity/authcore/internal"

// Key namespaces. Each is followed by the hashed identity.
const (
	EmailCodePrefix           = "email-code:"
	PhoneNumberCodePrefix     = "phone-number-code:"
	MfaCodePrefix             = "mfa-code:"
	ResetPasswordCodePrefix   = "reset-password-code:"
	AccountRecoveryCodePrefix = "account-recovery-code:"

	CodeRequestBlockedPrefix   = "code-request-blocked:"
	CodeBlockedPrefix          = "code-blocked:"
	PasswordResetBlockedPrefix = "password-reset-blocked:"

	// AccountRecoveryBlockedPrefix marks an identity whose second factor
	// changed recently and must not start account recovery.
	AccountRecoveryBlockedPrefix = "account-recovery-blocked:"

	IncorrectMfaCodesPrefix  = "multiple-incorrect-mfa-codes:"
	IncorrectPasswordsPrefix = "multiple-incorrect-passwords:"

	// ResetLinkPrefix is keyed by token, not identity.
	ResetLinkPrefix = "reset-password-link:"
)

// BlockedValue is written for every block record. Only presence matters.
const BlockedValue = "blocked"

// Key joins a namespace prefix with the hashed identity.
func Key(prefix, identity string) string {
	return prefix + internal.HashIdentity(identity)
}

// MethodScoped appends a method tag to a prefix. An empty tag returns the
// prefix unchanged, which is the legacy unscoped form.
func MethodScoped(prefix, method string) string {
	return prefix + method
}
