package journey

// State is a node in the user journey graph.
type State string

const (
	New                                State = "NEW"
	UserNotFound                       State = "USER_NOT_FOUND"
	AuthenticationRequired             State = "AUTHENTICATION_REQUIRED"
	AccountTemporarilyLocked           State = "ACCOUNT_TEMPORARILY_LOCKED"
	VerifyEmailCodeSent                State = "VERIFY_EMAIL_CODE_SENT"
	EmailMaxCodesSent                  State = "EMAIL_MAX_CODES_SENT"
	EmailCodeNotValid                  State = "EMAIL_CODE_NOT_VALID"
	EmailCodeMaxRetriesReached         State = "EMAIL_CODE_MAX_RETRIES_REACHED"
	EmailCodeVerified                  State = "EMAIL_CODE_VERIFIED"
	TwoFactorRequired                  State = "TWO_FACTOR_REQUIRED"
	AddedUnverifiedPhoneNumber         State = "ADDED_UNVERIFIED_PHONE_NUMBER"
	VerifyPhoneNumberCodeSent          State = "VERIFY_PHONE_NUMBER_CODE_SENT"
	PhoneNumberMaxCodesSent            State = "PHONE_NUMBER_MAX_CODES_SENT"
	PhoneNumberCodeNotValid            State = "PHONE_NUMBER_CODE_NOT_VALID"
	PhoneNumberCodeMaxRetriesReached   State = "PHONE_NUMBER_CODE_MAX_RETRIES_REACHED"
	PhoneNumberCodeVerified            State = "PHONE_NUMBER_CODE_VERIFIED"
	AuthAppCodeNotValid                State = "AUTH_APP_CODE_NOT_VALID"
	AuthAppCodeMaxRetriesReached       State = "AUTH_APP_CODE_MAX_RETRIES_REACHED"
	AuthAppCodeVerified                State = "AUTH_APP_CODE_VERIFIED"
	LoggedIn                           State = "LOGGED_IN"
	MfaSMSCodeSent                     State = "MFA_SMS_CODE_SENT"
	MfaSMSMaxCodesSent                 State = "MFA_SMS_MAX_CODES_SENT"
	MfaCodeNotValid                    State = "MFA_CODE_NOT_VALID"
	MfaCodeMaxRetriesReached           State = "MFA_CODE_MAX_RETRIES_REACHED"
	MfaCodeVerified                    State = "MFA_CODE_VERIFIED"
	ResetPasswordLinkSent              State = "RESET_PASSWORD_LINK_SENT"
	ResetPasswordLinkMaxRetriesReached State = "RESET_PASSWORD_LINK_MAX_RETRIES_REACHED"
	ResetPasswordCodeSent              State = "RESET_PASSWORD_CODE_SENT"
	ResetPasswordCodeMaxCodesSent      State = "RESET_PASSWORD_CODE_MAX_CODES_SENT"
	ResetPasswordCodeNotValid          State = "RESET_PASSWORD_CODE_NOT_VALID"
	ResetPasswordCodeMaxRetriesReached State = "RESET_PASSWORD_CODE_MAX_RETRIES_REACHED"
	ResetPasswordCodeVerified          State = "RESET_PASSWORD_CODE_VERIFIED"
	AccountRecoveryStarted             State = "ACCOUNT_RECOVERY_STARTED"
	AccountRecoveryBlocked             State = "ACCOUNT_RECOVERY_BLOCKED"
	AccountRecoveryCodeSent            State = "ACCOUNT_RECOVERY_CODE_SENT"
	AccountRecoveryMaxCodesSent        State = "ACCOUNT_RECOVERY_MAX_CODES_SENT"
	AccountRecoveryCodeNotValid        State = "ACCOUNT_RECOVERY_CODE_NOT_VALID"
	AccountRecoveryCodeMaxRetries      State = "ACCOUNT_RECOVERY_CODE_MAX_RETRIES_REACHED"
	AccountRecoveryCodeVerified        State = "ACCOUNT_RECOVERY_CODE_VERIFIED"
	Authenticated                      State = "AUTHENTICATED"
)

// Action labels an edge of the journey graph.
type Action string

const (
	UserEnteredUnregisteredEmailAddress Action = "USER_ENTERED_UNREGISTERED_EMAIL_ADDRESS"
	UserEnteredRegisteredEmailAddress   Action = "USER_ENTERED_REGISTERED_EMAIL_ADDRESS"

	SystemHasSentEmailVerificationCode                   Action = "SYSTEM_HAS_SENT_EMAIL_VERIFICATION_CODE"
	SystemHasSentTooManyEmailVerificationCodes           Action = "SYSTEM_HAS_SENT_TOO_MANY_EMAIL_VERIFICATION_CODES"
	SystemIsBlockedFromSendingAnyEmailVerificationCodes  Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_EMAIL_VERIFICATION_CODES"
	UserEnteredValidEmailVerificationCode                Action = "USER_ENTERED_VALID_EMAIL_VERIFICATION_CODE"
	UserEnteredInvalidEmailVerificationCode              Action = "USER_ENTERED_INVALID_EMAIL_VERIFICATION_CODE"
	UserEnteredInvalidEmailVerificationCodeTooManyTimes  Action = "USER_ENTERED_INVALID_EMAIL_VERIFICATION_CODE_TOO_MANY_TIMES"
	UserHasCreatedAPassword                              Action = "USER_HAS_CREATED_A_PASSWORD"
	UserEnteredANewPhoneNumber                           Action = "USER_ENTERED_A_NEW_PHONE_NUMBER"
	SystemHasSentPhoneVerificationCode                   Action = "SYSTEM_HAS_SENT_PHONE_VERIFICATION_CODE"
	SystemHasSentTooManyPhoneVerificationCodes           Action = "SYSTEM_HAS_SENT_TOO_MANY_PHONE_VERIFICATION_CODES"
	SystemIsBlockedFromSendingAnyPhoneVerificationCodes  Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_PHONE_VERIFICATION_CODES"
	UserEnteredValidPhoneVerificationCode                Action = "USER_ENTERED_VALID_PHONE_VERIFICATION_CODE"
	UserEnteredInvalidPhoneVerificationCode              Action = "USER_ENTERED_INVALID_PHONE_VERIFICATION_CODE"
	UserEnteredInvalidPhoneVerificationCodeTooManyTimes  Action = "USER_ENTERED_INVALID_PHONE_VERIFICATION_CODE_TOO_MANY_TIMES"
	UserEnteredValidAuthAppCode                          Action = "USER_ENTERED_VALID_AUTH_APP_CODE"
	UserEnteredInvalidAuthAppCode                        Action = "USER_ENTERED_INVALID_AUTH_APP_CODE"
	UserEnteredInvalidAuthAppCodeTooManyTimes            Action = "USER_ENTERED_INVALID_AUTH_APP_CODE_TOO_MANY_TIMES"

	UserEnteredValidCredentials                Action = "USER_ENTERED_VALID_CREDENTIALS"
	UserEnteredInvalidCredentials              Action = "USER_ENTERED_INVALID_CREDENTIALS"
	UserEnteredInvalidCredentialsTooManyTimes  Action = "USER_ENTERED_INVALID_CREDENTIALS_TOO_MANY_TIMES"
	SystemHasSentMfaCode                       Action = "SYSTEM_HAS_SENT_MFA_CODE"
	SystemHasSentTooManyMfaCodes               Action = "SYSTEM_HAS_SENT_TOO_MANY_MFA_CODES"
	SystemIsBlockedFromSendingAnyMfaCodes      Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_MFA_VERIFICATION_CODES"
	UserEnteredValidMfaCode                    Action = "USER_ENTERED_VALID_MFA_CODE"
	UserEnteredInvalidMfaCode                  Action = "USER_ENTERED_INVALID_MFA_CODE"
	UserEnteredInvalidMfaCodeTooManyTimes      Action = "USER_ENTERED_INVALID_MFA_CODE_TOO_MANY_TIMES"
	SystemHasIssuedAuthorizationCode           Action = "SYSTEM_HAS_ISSUED_AUTHORIZATION_CODE"
	SystemHasSentResetPasswordLink             Action = "SYSTEM_HAS_SENT_RESET_PASSWORD_LINK"
	SystemHasSentTooManyResetPasswordLinks     Action = "SYSTEM_HAS_SENT_TOO_MANY_RESET_PASSWORD_LINKS"
	SystemIsBlockedFromSendingAnyResetLinks    Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_RESET_PASSWORD_LINKS"
	UserHasResetPassword                       Action = "USER_HAS_RESET_PASSWORD"

	SystemHasSentResetPasswordCode                  Action = "SYSTEM_HAS_SENT_RESET_PASSWORD_CODE"
	SystemHasSentTooManyResetPasswordCodes          Action = "SYSTEM_HAS_SENT_TOO_MANY_RESET_PASSWORD_CODES"
	SystemIsBlockedFromSendingAnyResetPasswordCodes Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_RESET_PASSWORD_CODES"
	UserEnteredValidResetPasswordCode               Action = "USER_ENTERED_VALID_RESET_PASSWORD_CODE"
	UserEnteredInvalidResetPasswordCode             Action = "USER_ENTERED_INVALID_RESET_PASSWORD_CODE"
	UserEnteredInvalidResetPasswordCodeTooManyTimes Action = "USER_ENTERED_INVALID_RESET_PASSWORD_CODE_TOO_MANY_TIMES"

	UserRequestedAccountRecovery                      Action = "USER_REQUESTED_ACCOUNT_RECOVERY"
	SystemHasDetectedAccountRecoveryBlock             Action = "SYSTEM_HAS_DETECTED_ACCOUNT_RECOVERY_BLOCK"
	SystemHasSentAccountRecoveryCode                  Action = "SYSTEM_HAS_SENT_ACCOUNT_RECOVERY_CODE"
	SystemHasSentTooManyAccountRecoveryCodes          Action = "SYSTEM_HAS_SENT_TOO_MANY_ACCOUNT_RECOVERY_CODES"
	SystemIsBlockedFromSendingAnyAccountRecoveryCodes Action = "SYSTEM_IS_BLOCKED_FROM_SENDING_ANY_ACCOUNT_RECOVERY_CODES"
	UserEnteredValidAccountRecoveryCode               Action = "USER_ENTERED_VALID_ACCOUNT_RECOVERY_CODE"
	UserEnteredInvalidAccountRecoveryCode             Action = "USER_ENTERED_INVALID_ACCOUNT_RECOVERY_CODE"
	UserEnteredInvalidAccountRecoveryCodeTooManyTimes Action = "USER_ENTERED_INVALID_ACCOUNT_RECOVERY_CODE_TOO_MANY_TIMES"
)
