package mfa

import "github.com/digital-identity/authcore/internal/stores"

// ChannelAuthApp names the authenticator-app channel in an ErrorTable.
const ChannelAuthApp = "AUTH_APP"

// Channel binds a delivery channel to its method, code namespace and the
// scope its entry block is written under. AlsoBlockedBy names further scopes
// that refuse entry on this channel without ever being written by it.
type Channel struct {
	Name          string
	Method        MethodType
	CodePrefix    string
	BlockScope    string
	AlsoBlockedBy []string
}

// EntryScopes lists the block scopes checked before a code on c is accepted,
// in order: the written scope, any extra scopes, then the broad entry block.
func (c Channel) EntryScopes() []string {
	scopes := make([]string, 0, len(c.AlsoBlockedBy)+2)
	scopes = append(scopes, c.BlockScope)
	scopes = append(scopes, c.AlsoBlockedBy...)
	if c.BlockScope != stores.CodeBlockedPrefix {
		scopes = append(scopes, stores.CodeBlockedPrefix)
	}
	return scopes
}

var channels = map[NotificationType]Channel{
	VerifyEmail: {
		Name:       string(VerifyEmail),
		Method:     MethodEmail,
		CodePrefix: stores.EmailCodePrefix,
		BlockScope: stores.MethodScoped(stores.CodeBlockedPrefix, MethodEmail.KeyTag()),
	},
	ResetPasswordWithCode: {
		Name:          string(ResetPasswordWithCode),
		Method:        MethodEmail,
		CodePrefix:    stores.ResetPasswordCodePrefix,
		BlockScope:    stores.MethodScoped(stores.CodeBlockedPrefix, MethodEmail.KeyTag()),
		AlsoBlockedBy: []string{stores.PasswordResetBlockedPrefix},
	},
	VerifyChangeHowGetSecurityCodes: {
		Name:       string(VerifyChangeHowGetSecurityCodes),
		Method:     MethodEmail,
		CodePrefix: stores.AccountRecoveryCodePrefix,
		BlockScope: stores.MethodScoped(stores.CodeBlockedPrefix, MethodEmail.KeyTag()),
	},
	VerifyPhoneNumber: {
		Name:       string(VerifyPhoneNumber),
		Method:     MethodSMS,
		CodePrefix: stores.PhoneNumberCodePrefix,
		BlockScope: stores.MethodScoped(stores.CodeBlockedPrefix, MethodSMS.KeyTag()),
	},
	MfaSMS: {
		Name:       string(MfaSMS),
		Method:     MethodSMS,
		CodePrefix: stores.MfaCodePrefix,
		BlockScope: stores.MethodScoped(stores.CodeBlockedPrefix, MethodSMS.KeyTag()),
	},
}

var authAppChannel = Channel{
	Name:       ChannelAuthApp,
	Method:     MethodAuthApp,
	BlockScope: stores.MethodScoped(stores.CodeBlockedPrefix, MethodAuthApp.KeyTag()),
}

// ChannelForNotification returns the OTP channel behind a notification type.
// RESET_PASSWORD carries a link, not a code, and has no channel.
func ChannelForNotification(n NotificationType) (Channel, bool) {
	c, ok := channels[n]
	return c, ok
}

// NotificationFor picks the OTP notification a method uses on a journey.
func NotificationFor(method MethodType, journey JourneyType) (NotificationType, bool) {
	switch method {
	case MethodEmail:
		switch journey {
		case JourneyRegistration:
			return VerifyEmail, true
		case JourneyPasswordReset:
			return ResetPasswordWithCode, true
		case JourneyAccountRecovery:
			return VerifyChangeHowGetSecurityCodes, true
		}
	case MethodSMS:
		switch journey {
		case JourneyRegistration, JourneyAccountRecovery:
			return VerifyPhoneNumber, true
		case JourneySignIn, JourneyPasswordReset:
			return MfaSMS, true
		}
	}
	return "", false
}

// RouteNotification is the inverse of NotificationFor.
func RouteNotification(n NotificationType) (MethodType, JourneyType, bool) {
	switch n {
	case VerifyEmail:
		return MethodEmail, JourneyRegistration, true
	case ResetPasswordWithCode:
		return MethodEmail, JourneyPasswordReset, true
	case VerifyChangeHowGetSecurityCodes:
		return MethodEmail, JourneyAccountRecovery, true
	case VerifyPhoneNumber:
		return MethodSMS, JourneyRegistration, true
	case MfaSMS:
		return MethodSMS, JourneySignIn, true
	}
	return "", "", false
}

// EntryBlockScopes lists every scope an entry block can live under, narrowest
// first. Used by admin unblock and by code issuance checks.
func EntryBlockScopes() []string {
	scopes := make([]string, 0, len(ScopedMethods)+2)
	for _, m := range ScopedMethods {
		scopes = append(scopes, stores.MethodScoped(stores.CodeBlockedPrefix, m.KeyTag()))
	}
	return append(scopes, stores.PasswordResetBlockedPrefix, stores.CodeBlockedPrefix)
}
