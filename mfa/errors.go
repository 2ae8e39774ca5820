package mfa

import (
	"fmt"
	"strings"
)

// ErrorKind classifies every outcome the core can report.
type ErrorKind int

const (
	KindCodeMissingOrExpired ErrorKind = iota + 1
	KindCodeIncorrect
	KindRetryLimitExceeded
	KindEntryBlocked
	KindRequestBlocked
	KindCredentialNotFound
	KindMalformedSubmittedCode
	KindUnsupportedMfaMethod
	KindUnsupportedNotificationType
	KindInvalidStateTransition
	KindStoreUnavailable
)

var kindNames = map[ErrorKind]string{
	KindCodeMissingOrExpired:        "CodeMissingOrExpired",
	KindCodeIncorrect:               "CodeIncorrect",
	KindRetryLimitExceeded:          "RetryLimitExceeded",
	KindEntryBlocked:                "EntryBlocked",
	KindRequestBlocked:              "RequestBlocked",
	KindCredentialNotFound:          "CredentialNotFound",
	KindMalformedSubmittedCode:      "MalformedSubmittedCode",
	KindUnsupportedMfaMethod:        "UnsupportedMfaMethod",
	KindUnsupportedNotificationType: "UnsupportedNotificationType",
	KindInvalidStateTransition:      "InvalidStateTransition",
	KindStoreUnavailable:            "StoreUnavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ErrorCode is the numeric code returned to the frontend.
type ErrorCode int

const (
	CodeUnsupportedNotificationType ErrorCode = 1002
	CodeInvalidStateTransition      ErrorCode = 1017
	CodeResetPasswordCodeIncorrect  ErrorCode = 1021
	CodeMfaSMSMaxRetries            ErrorCode = 1027
	CodeEmailMaxRetries             ErrorCode = 1033
	CodePhoneMaxRetries             ErrorCode = 1034
	CodeMfaSMSIncorrect             ErrorCode = 1035
	CodeEmailIncorrect              ErrorCode = 1036
	CodePhoneIncorrect              ErrorCode = 1037
	CodeResetPasswordMaxRetries     ErrorCode = 1039
	CodeAuthAppMaxRetries           ErrorCode = 1042
	CodeAuthAppInvalid              ErrorCode = 1043
	CodeUnblockNotPossible          ErrorCode = 1045
	CodeAccountRecoveryMaxRetries   ErrorCode = 1048
	CodeAccountRecoveryIncorrect    ErrorCode = 1049
)

// Rejection is a user-facing validation outcome. A nil *Rejection means the
// code was accepted.
type Rejection struct {
	Kind ErrorKind
	Code ErrorCode
}

func (r *Rejection) String() string {
	if r == nil {
		return "accepted"
	}
	return fmt.Sprintf("%s (%d)", r.Kind, int(r.Code))
}

// Is reports whether r has the given kind. It is nil-safe.
func (r *Rejection) Is(kind ErrorKind) bool {
	return r != nil && r.Kind == kind
}

// ChannelErrors holds the codes one channel reports per outcome.
type ChannelErrors struct {
	Blocked            ErrorCode `mapstructure:"blocked"`
	MaxRetries         ErrorCode `mapstructure:"max_retries"`
	Incorrect          ErrorCode `mapstructure:"incorrect"`
	CredentialNotFound ErrorCode `mapstructure:"credential_not_found"`
	Malformed          ErrorCode `mapstructure:"malformed"`
}

// ErrorTable maps a channel name to its codes.
type ErrorTable map[string]ChannelErrors

func DefaultErrorTable() ErrorTable {
	return ErrorTable{
		string(VerifyEmail): {
			Blocked:    CodeEmailMaxRetries,
			MaxRetries: CodeEmailMaxRetries,
			Incorrect:  CodeEmailIncorrect,
		},
		string(ResetPasswordWithCode): {
			Blocked:    CodeResetPasswordMaxRetries,
			MaxRetries: CodeResetPasswordMaxRetries,
			Incorrect:  CodeResetPasswordCodeIncorrect,
		},
		string(VerifyChangeHowGetSecurityCodes): {
			Blocked:    CodeAccountRecoveryMaxRetries,
			MaxRetries: CodeAccountRecoveryMaxRetries,
			Incorrect:  CodeAccountRecoveryIncorrect,
		},
		string(VerifyPhoneNumber): {
			Blocked:    CodePhoneMaxRetries,
			MaxRetries: CodePhoneMaxRetries,
			Incorrect:  CodePhoneIncorrect,
		},
		string(MfaSMS): {
			Blocked:    CodeMfaSMSMaxRetries,
			MaxRetries: CodeMfaSMSMaxRetries,
			Incorrect:  CodeMfaSMSIncorrect,
		},
		ChannelAuthApp: {
			Blocked:            CodeAuthAppMaxRetries,
			MaxRetries:         CodeAuthAppMaxRetries,
			Incorrect:          CodeAuthAppInvalid,
			CredentialNotFound: CodeAuthAppInvalid,
			Malformed:          CodeAuthAppInvalid,
		},
	}
}

// For returns the codes for a channel, filling any zero entry from the
// defaults so a partial override cannot produce a zero code. Lowercase keys
// are accepted because configuration loaders fold map keys.
func (t ErrorTable) For(channel string) ChannelErrors {
	def := DefaultErrorTable()[channel]
	got, ok := t[channel]
	if !ok {
		got, ok = t[strings.ToLower(channel)]
	}
	if !ok {
		return def
	}
	if got.Blocked == 0 {
		got.Blocked = def.Blocked
	}
	if got.MaxRetries == 0 {
		got.MaxRetries = def.MaxRetries
	}
	if got.Incorrect == 0 {
		got.Incorrect = def.Incorrect
	}
	if got.CredentialNotFound == 0 {
		got.CredentialNotFound = def.CredentialNotFound
	}
	if got.Malformed == 0 {
		got.Malformed = def.Malformed
	}
	return got
}
