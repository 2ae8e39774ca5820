package journey

type edges map[Action]State

func merge(groups ...edges) edges {
	out := edges{}
	for _, g := range groups {
		for action, next := range g {
			out[action] = next
		}
	}
	return out
}

// userJourneyTable is the single source of truth for which actions are legal
// from which states. Rules a reviewer should be able to check here:
//   - NEW has no inbound edge.
//   - MFA_CODE_VERIFIED is only reachable through LOGGED_IN, which is only
//     reachable through AUTHENTICATION_REQUIRED.
//   - AUTHENTICATED is only reachable from a *_VERIFIED state.
func userJourneyTable() map[State]edges {
	changeEmail := edges{UserEnteredUnregisteredEmailAddress: UserNotFound}

	sendEmail := edges{
		SystemHasSentEmailVerificationCode:                  VerifyEmailCodeSent,
		SystemHasSentTooManyEmailVerificationCodes:          EmailMaxCodesSent,
		SystemIsBlockedFromSendingAnyEmailVerificationCodes: EmailMaxCodesSent,
		UserEnteredInvalidEmailVerificationCodeTooManyTimes: EmailCodeMaxRetriesReached,
	}
	enterEmail := edges{
		UserEnteredValidEmailVerificationCode:               EmailCodeVerified,
		UserEnteredInvalidEmailVerificationCode:             EmailCodeNotValid,
		UserEnteredInvalidEmailVerificationCodeTooManyTimes: EmailCodeMaxRetriesReached,
	}

	changePhone := edges{UserEnteredANewPhoneNumber: AddedUnverifiedPhoneNumber}
	sendPhone := edges{
		SystemHasSentPhoneVerificationCode:                  VerifyPhoneNumberCodeSent,
		SystemHasSentTooManyPhoneVerificationCodes:          PhoneNumberMaxCodesSent,
		SystemIsBlockedFromSendingAnyPhoneVerificationCodes: PhoneNumberMaxCodesSent,
		UserEnteredInvalidPhoneVerificationCodeTooManyTimes: PhoneNumberCodeMaxRetriesReached,
	}
	enterPhone := edges{
		UserEnteredValidPhoneVerificationCode:               PhoneNumberCodeVerified,
		UserEnteredInvalidPhoneVerificationCode:             PhoneNumberCodeNotValid,
		UserEnteredInvalidPhoneVerificationCodeTooManyTimes: PhoneNumberCodeMaxRetriesReached,
	}
	enterAuthApp := edges{
		UserEnteredValidAuthAppCode:               AuthAppCodeVerified,
		UserEnteredInvalidAuthAppCode:             AuthAppCodeNotValid,
		UserEnteredInvalidAuthAppCodeTooManyTimes: AuthAppCodeMaxRetriesReached,
	}

	sendResetLink := edges{
		SystemHasSentResetPasswordLink:          ResetPasswordLinkSent,
		SystemHasSentTooManyResetPasswordLinks:  ResetPasswordLinkMaxRetriesReached,
		SystemIsBlockedFromSendingAnyResetLinks: ResetPasswordLinkMaxRetriesReached,
	}
	sendResetCode := edges{
		SystemHasSentResetPasswordCode:                  ResetPasswordCodeSent,
		SystemHasSentTooManyResetPasswordCodes:          ResetPasswordCodeMaxCodesSent,
		SystemIsBlockedFromSendingAnyResetPasswordCodes: ResetPasswordCodeMaxCodesSent,
		UserEnteredInvalidResetPasswordCodeTooManyTimes: ResetPasswordCodeMaxRetriesReached,
	}
	enterResetCode := edges{
		UserEnteredValidResetPasswordCode:               ResetPasswordCodeVerified,
		UserEnteredInvalidResetPasswordCode:             ResetPasswordCodeNotValid,
		UserEnteredInvalidResetPasswordCodeTooManyTimes: ResetPasswordCodeMaxRetriesReached,
	}

	sendMfa := edges{
		SystemHasSentMfaCode:                  MfaSMSCodeSent,
		SystemHasSentTooManyMfaCodes:          MfaSMSMaxCodesSent,
		SystemIsBlockedFromSendingAnyMfaCodes: MfaSMSMaxCodesSent,
		UserEnteredInvalidMfaCodeTooManyTimes: MfaCodeMaxRetriesReached,
	}
	enterMfa := edges{
		UserEnteredValidMfaCode:               MfaCodeVerified,
		UserEnteredInvalidMfaCode:             MfaCodeNotValid,
		UserEnteredInvalidMfaCodeTooManyTimes: MfaCodeMaxRetriesReached,
	}
	recovery := edges{
		UserRequestedAccountRecovery:          AccountRecoveryStarted,
		SystemHasDetectedAccountRecoveryBlock: AccountRecoveryBlocked,
	}

	sendRecovery := edges{
		SystemHasSentAccountRecoveryCode:                  AccountRecoveryCodeSent,
		SystemHasSentTooManyAccountRecoveryCodes:          AccountRecoveryMaxCodesSent,
		SystemIsBlockedFromSendingAnyAccountRecoveryCodes: AccountRecoveryMaxCodesSent,
		UserEnteredInvalidAccountRecoveryCodeTooManyTimes: AccountRecoveryCodeMaxRetries,
	}
	enterRecovery := edges{
		UserEnteredValidAccountRecoveryCode:               AccountRecoveryCodeVerified,
		UserEnteredInvalidAccountRecoveryCode:             AccountRecoveryCodeNotValid,
		UserEnteredInvalidAccountRecoveryCodeTooManyTimes: AccountRecoveryCodeMaxRetries,
	}

	issue := edges{SystemHasIssuedAuthorizationCode: Authenticated}

	return map[State]edges{
		New: {
			UserEnteredUnregisteredEmailAddress: UserNotFound,
			UserEnteredRegisteredEmailAddress:   AuthenticationRequired,
		},
		UserNotFound: merge(sendEmail, changeEmail, edges{
			UserEnteredRegisteredEmailAddress: AuthenticationRequired,
		}),

		// Registration.
		VerifyEmailCodeSent:        merge(sendEmail, enterEmail, changeEmail),
		EmailCodeNotValid:          merge(sendEmail, enterEmail, changeEmail),
		EmailMaxCodesSent:          merge(sendEmail, changeEmail),
		EmailCodeMaxRetriesReached: merge(sendEmail, changeEmail),
		EmailCodeVerified:          {UserHasCreatedAPassword: TwoFactorRequired},
		TwoFactorRequired:          merge(changePhone, enterAuthApp),

		AddedUnverifiedPhoneNumber:       merge(sendPhone, changePhone),
		VerifyPhoneNumberCodeSent:        merge(sendPhone, enterPhone, changePhone),
		PhoneNumberCodeNotValid:          merge(sendPhone, enterPhone, changePhone),
		PhoneNumberMaxCodesSent:          merge(sendPhone, changePhone),
		PhoneNumberCodeMaxRetriesReached: merge(sendPhone, changePhone),
		PhoneNumberCodeVerified:          issue,

		AuthAppCodeNotValid:          merge(enterAuthApp, changePhone),
		AuthAppCodeMaxRetriesReached: merge(changePhone, edges{UserEnteredInvalidAuthAppCodeTooManyTimes: AuthAppCodeMaxRetriesReached}),
		AuthAppCodeVerified:          issue,

		// Sign in.
		AuthenticationRequired: merge(sendResetLink, sendResetCode, changeEmail, edges{
			UserEnteredRegisteredEmailAddress:         AuthenticationRequired,
			UserEnteredValidCredentials:               LoggedIn,
			UserEnteredInvalidCredentials:             AuthenticationRequired,
			UserEnteredInvalidCredentialsTooManyTimes: AccountTemporarilyLocked,
		}),
		AccountTemporarilyLocked: merge(sendResetLink, sendResetCode, edges{
			UserEnteredRegisteredEmailAddress:         AuthenticationRequired,
			UserEnteredInvalidCredentialsTooManyTimes: AccountTemporarilyLocked,
		}),

		// Password reset.
		ResetPasswordLinkSent: merge(sendResetLink, edges{
			UserEnteredValidCredentials: LoggedIn,
			UserHasResetPassword:        AuthenticationRequired,
		}),
		ResetPasswordLinkMaxRetriesReached: merge(sendResetLink, edges{
			UserEnteredValidCredentials: LoggedIn,
			UserHasResetPassword:        AuthenticationRequired,
		}),
		ResetPasswordCodeSent:              merge(sendResetCode, enterResetCode),
		ResetPasswordCodeNotValid:          merge(sendResetCode, enterResetCode),
		ResetPasswordCodeMaxCodesSent:      merge(sendResetCode, edges{UserEnteredValidCredentials: LoggedIn}),
		ResetPasswordCodeMaxRetriesReached: merge(sendResetCode, edges{UserEnteredValidCredentials: LoggedIn}),
		ResetPasswordCodeVerified:          {UserHasResetPassword: AuthenticationRequired},

		// Second factor at sign in.
		LoggedIn:                 merge(sendMfa, enterMfa, recovery),
		MfaSMSCodeSent:           merge(sendMfa, enterMfa, recovery),
		MfaCodeNotValid:          merge(sendMfa, enterMfa, recovery),
		MfaSMSMaxCodesSent:       merge(sendMfa, enterMfa),
		MfaCodeMaxRetriesReached: sendMfa,
		MfaCodeVerified:          issue,

		// Account recovery.
		AccountRecoveryStarted: sendRecovery,
		AccountRecoveryBlocked: merge(sendMfa, enterMfa, edges{
			SystemHasDetectedAccountRecoveryBlock: AccountRecoveryBlocked,
		}),
		AccountRecoveryCodeSent:       merge(sendRecovery, enterRecovery),
		AccountRecoveryCodeNotValid:   merge(sendRecovery, enterRecovery),
		AccountRecoveryMaxCodesSent:   sendRecovery,
		AccountRecoveryCodeMaxRetries: sendRecovery,
		AccountRecoveryCodeVerified:   merge(changePhone, enterAuthApp),

		Authenticated: issue,
	}
}
