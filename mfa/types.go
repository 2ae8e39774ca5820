package mfa

// MethodType names a second-factor method. MethodEmpty tags the legacy
// unscoped attempt counter and is never a valid validator choice.
type MethodType string

const (
	MethodEmail   MethodType = "EMAIL"
	MethodSMS     MethodType = "SMS"
	MethodAuthApp MethodType = "AUTH_APP"
	MethodEmpty   MethodType = "EMPTY"
)

// ScopedMethods lists the methods that own a scoped counter and entry block.
var ScopedMethods = []MethodType{MethodEmail, MethodSMS, MethodAuthApp}

// KeyTag is the suffix used in store keys. The empty method maps to no tag.
func (m MethodType) KeyTag() string {
	if m == MethodEmpty || m == "" {
		return ""
	}
	return string(m)
}

// JourneyType is the purpose of the current flow. It only selects retry limits
// and channels.
type JourneyType string

const (
	JourneyRegistration    JourneyType = "REGISTRATION"
	JourneySignIn          JourneyType = "SIGN_IN"
	JourneyAccountRecovery JourneyType = "ACCOUNT_RECOVERY"
	JourneyPasswordReset   JourneyType = "PASSWORD_RESET"
)

// NotificationType identifies what was sent to the user.
type NotificationType string

const (
	VerifyEmail                     NotificationType = "VERIFY_EMAIL"
	VerifyPhoneNumber               NotificationType = "VERIFY_PHONE_NUMBER"
	MfaSMS                          NotificationType = "MFA_SMS"
	ResetPassword                   NotificationType = "RESET_PASSWORD"
	ResetPasswordWithCode           NotificationType = "RESET_PASSWORD_WITH_CODE"
	VerifyChangeHowGetSecurityCodes NotificationType = "VERIFY_CHANGE_HOW_GET_SECURITY_CODES"
)

// Identity is the caller context a validator is bound to.
type Identity struct {
	Email string
}

// MfaMethod is one registered second factor as held by the user store.
type MfaMethod struct {
	Type       MethodType
	Credential string
	Enabled    bool
	Verified   bool
}

// UserCredentials is the slice of the user record the validators read.
type UserCredentials struct {
	Email      string
	MfaMethods []MfaMethod
}

// EnabledAuthApp returns the first enabled AUTH_APP method.
func (c *UserCredentials) EnabledAuthApp() (MfaMethod, bool) {
	if c == nil {
		return MfaMethod{}, false
	}
	for _, m := range c.MfaMethods {
		if m.Type == MethodAuthApp && m.Enabled && m.Credential != "" {
			return m, true
		}
	}
	return MfaMethod{}, false
}
