package mfa

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-identity/authcore/internal/stores"
)

func TestFactoryVariants(t *testing.T) {
	h := newHarness(t)
	f := h.factory(FactoryConfig{MaxRetries: 5, MaxRetriesRegistration: 3}, nil)

	cases := []struct {
		method  MethodType
		journey JourneyType
		want    any
	}{
		{MethodEmail, JourneyRegistration, &EmailCodeValidator{}},
		{MethodEmail, JourneyPasswordReset, &EmailCodeValidator{}},
		{MethodEmail, JourneyAccountRecovery, &EmailCodeValidator{}},
		{MethodSMS, JourneyRegistration, &PhoneNumberCodeValidator{}},
		{MethodSMS, JourneySignIn, &PhoneNumberCodeValidator{}},
		{MethodAuthApp, JourneySignIn, &AuthAppCodeValidator{}},
		{MethodAuthApp, JourneyRegistration, &AuthAppCodeValidator{}},
	}
	for _, tc := range cases {
		v, ok := f.Validator(tc.method, tc.journey, false, Identity{Email: joe})
		require.True(t, ok, "%s/%s", tc.method, tc.journey)
		assert.IsType(t, tc.want, v, "%s/%s", tc.method, tc.journey)
	}
}

func TestFactoryUnsupported(t *testing.T) {
	h := newHarness(t)
	f := h.factory(FactoryConfig{MaxRetries: 5}, nil)

	for _, tc := range []struct {
		method  MethodType
		journey JourneyType
	}{
		{MethodEmpty, JourneySignIn},
		{"", JourneySignIn},
		{"PASSKEY", JourneySignIn},
		{MethodEmail, JourneySignIn},
	} {
		v, ok := f.Validator(tc.method, tc.journey, false, Identity{Email: joe})
		assert.False(t, ok, "%s/%s", tc.method, tc.journey)
		assert.Nil(t, v)
	}

	_, ok := f.ForNotification(ResetPassword, false, Identity{Email: joe})
	assert.False(t, ok, "link notifications have no code validator")
}

func TestFactoryRegistrationLimit(t *testing.T) {
	h := newHarness(t)
	f := h.factory(FactoryConfig{MaxRetries: 5, MaxRetriesRegistration: 1}, nil)
	assert.Equal(t, 1, f.MaxRetries(JourneyRegistration))
	assert.Equal(t, 5, f.MaxRetries(JourneySignIn))
	assert.Equal(t, 5, f.MaxRetries(JourneyAccountRecovery))

	ctx := context.Background()
	require.NoError(t, h.codes.SaveOTP(ctx, joe, stores.PhoneNumberCodePrefix, "123456", time.Minute))
	v := mustValidator(t, f, MethodSMS, JourneyRegistration, false)

	rej, err := v.ValidateCode(ctx, "000000")
	require.NoError(t, err)
	assert.True(t, rej.Is(KindCodeIncorrect))
	assert.Equal(t, CodePhoneIncorrect, rej.Code)

	rej, err = v.ValidateCode(ctx, "000000")
	require.NoError(t, err)
	assert.True(t, rej.Is(KindRetryLimitExceeded))
	assert.Equal(t, CodePhoneMaxRetries, rej.Code)
}

func TestFactoryForNotificationRoutes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	f := h.factory(FactoryConfig{MaxRetries: 5, MaxRetriesRegistration: 5}, nil)
	require.NoError(t, h.codes.SaveOTP(ctx, joe, stores.MfaCodePrefix, "123456", time.Minute))

	v, ok := f.ForNotification(MfaSMS, false, Identity{Email: joe})
	require.True(t, ok)
	rej, err := v.ValidateCode(ctx, "123456")
	require.NoError(t, err)
	assert.Nil(t, rej)

	v, ok = f.ForNotification(VerifyPhoneNumber, false, Identity{Email: joe})
	require.True(t, ok)
	rej, err = v.ValidateCode(ctx, "123456")
	require.NoError(t, err)
	assert.True(t, rej.Is(KindCodeMissingOrExpired), "phone verification codes live under their own prefix")
}

func TestErrorTableOverrides(t *testing.T) {
	table := ErrorTable{"mfa_sms": {Incorrect: 4000}}
	got := table.For(string(MfaSMS))
	assert.Equal(t, ErrorCode(4000), got.Incorrect)
	assert.Equal(t, CodeMfaSMSMaxRetries, got.MaxRetries, "unset entries fall back to defaults")
	assert.Equal(t, DefaultErrorTable()[string(VerifyEmail)], table.For(string(VerifyEmail)))
}

func TestRouteNotificationRoundTrip(t *testing.T) {
	for _, n := range []NotificationType{VerifyEmail, ResetPasswordWithCode, VerifyChangeHowGetSecurityCodes, MfaSMS} {
		method, journey, ok := RouteNotification(n)
		require.True(t, ok)
		back, ok := NotificationFor(method, journey)
		require.True(t, ok)
		assert.Equal(t, n, back)
	}
}

func TestRejectionHelpers(t *testing.T) {
	var nilRej *Rejection
	assert.False(t, nilRej.Is(KindCodeIncorrect))
	assert.Equal(t, "accepted", nilRej.String())
	assert.Equal(t, "EntryBlocked (1033)", (&Rejection{Kind: KindEntryBlocked, Code: 1033}).String())
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
}

func TestEntryBlockScopesNarrowestFirst(t *testing.T) {
	scopes := EntryBlockScopes()
	require.NotEmpty(t, scopes)
	assert.Equal(t, stores.CodeBlockedPrefix, scopes[len(scopes)-1])
	assert.Contains(t, scopes, "code-blocked:AUTH_APP")
}
