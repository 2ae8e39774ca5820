package authcore

import (
	"github.com/digital-identity/authcore/journey"
	"github.com/digital-identity/authcore/mfa"
)

// channelActions are the journey edges one channel drives.
type channelActions struct {
	sent           journey.Action
	tooManySent    journey.Action
	requestBlocked journey.Action

	valid          journey.Action
	invalid        journey.Action
	tooManyInvalid journey.Action
}

// forRejection maps a validation outcome onto the channel's edge.
func (a channelActions) forRejection(rej *mfa.Rejection) journey.Action {
	switch {
	case rej == nil:
		return a.valid
	case rej.Is(mfa.KindRetryLimitExceeded), rej.Is(mfa.KindEntryBlocked):
		return a.tooManyInvalid
	default:
		return a.invalid
	}
}

var notificationActions = map[mfa.NotificationType]channelActions{
	mfa.VerifyEmail: {
		sent:           journey.SystemHasSentEmailVerificationCode,
		tooManySent:    journey.SystemHasSentTooManyEmailVerificationCodes,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyEmailVerificationCodes,
		valid:          journey.UserEnteredValidEmailVerificationCode,
		invalid:        journey.UserEnteredInvalidEmailVerificationCode,
		tooManyInvalid: journey.UserEnteredInvalidEmailVerificationCodeTooManyTimes,
	},
	mfa.VerifyPhoneNumber: {
		sent:           journey.SystemHasSentPhoneVerificationCode,
		tooManySent:    journey.SystemHasSentTooManyPhoneVerificationCodes,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyPhoneVerificationCodes,
		valid:          journey.UserEnteredValidPhoneVerificationCode,
		invalid:        journey.UserEnteredInvalidPhoneVerificationCode,
		tooManyInvalid: journey.UserEnteredInvalidPhoneVerificationCodeTooManyTimes,
	},
	mfa.MfaSMS: {
		sent:           journey.SystemHasSentMfaCode,
		tooManySent:    journey.SystemHasSentTooManyMfaCodes,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyMfaCodes,
		valid:          journey.UserEnteredValidMfaCode,
		invalid:        journey.UserEnteredInvalidMfaCode,
		tooManyInvalid: journey.UserEnteredInvalidMfaCodeTooManyTimes,
	},
	mfa.ResetPasswordWithCode: {
		sent:           journey.SystemHasSentResetPasswordCode,
		tooManySent:    journey.SystemHasSentTooManyResetPasswordCodes,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyResetPasswordCodes,
		valid:          journey.UserEnteredValidResetPasswordCode,
		invalid:        journey.UserEnteredInvalidResetPasswordCode,
		tooManyInvalid: journey.UserEnteredInvalidResetPasswordCodeTooManyTimes,
	},
	mfa.VerifyChangeHowGetSecurityCodes: {
		sent:           journey.SystemHasSentAccountRecoveryCode,
		tooManySent:    journey.SystemHasSentTooManyAccountRecoveryCodes,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyAccountRecoveryCodes,
		valid:          journey.UserEnteredValidAccountRecoveryCode,
		invalid:        journey.UserEnteredInvalidAccountRecoveryCode,
		tooManyInvalid: journey.UserEnteredInvalidAccountRecoveryCodeTooManyTimes,
	},
	mfa.ResetPassword: {
		sent:           journey.SystemHasSentResetPasswordLink,
		tooManySent:    journey.SystemHasSentTooManyResetPasswordLinks,
		requestBlocked: journey.SystemIsBlockedFromSendingAnyResetLinks,
	},
}

// Auth-app codes entered while setting up a second factor.
var authAppActions = channelActions{
	valid:          journey.UserEnteredValidAuthAppCode,
	invalid:        journey.UserEnteredInvalidAuthAppCode,
	tooManyInvalid: journey.UserEnteredInvalidAuthAppCodeTooManyTimes,
}

// mfaEntryActions returns the edges for a second-factor submission. At sign
// in every method drives the MFA edges; elsewhere an auth-app code drives the
// auth-app edges and a texted code the phone verification edges.
func mfaEntryActions(method mfa.MethodType, journeyType mfa.JourneyType) (channelActions, string, bool) {
	signIn := journeyType == mfa.JourneySignIn || journeyType == mfa.JourneyPasswordReset
	switch method {
	case mfa.MethodAuthApp:
		if signIn {
			return notificationActions[mfa.MfaSMS], mfa.ChannelAuthApp, true
		}
		return authAppActions, mfa.ChannelAuthApp, true
	case mfa.MethodSMS:
		n, ok := mfa.NotificationFor(method, journeyType)
		if !ok {
			return channelActions{}, "", false
		}
		return notificationActions[n], string(n), true
	}
	return channelActions{}, "", false
}
