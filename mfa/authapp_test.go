package mfa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-identity/authcore/internal/stores"
)

// base32("12345678901234567890"). Time step 1000 yields 450130.
const (
	authAppSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	stepCode      = "450130"
	stepStart     = int64(1000 * 30)
)

type staticCredentials struct {
	creds *UserCredentials
	err   error
}

func (s staticCredentials) UserCredentials(context.Context, string) (*UserCredentials, error) {
	return s.creds, s.err
}

func authAppUser(enabled bool) staticCredentials {
	return staticCredentials{creds: &UserCredentials{
		Email: joe,
		MfaMethods: []MfaMethod{
			{Type: MethodSMS, Credential: "07700900000", Enabled: true},
			{Type: MethodAuthApp, Credential: authAppSecret, Enabled: enabled},
		},
	}}
}

func fixedClock(unix int64) FactoryOption {
	return WithClock(func() time.Time { return time.Unix(unix, 0) })
}

func authAppFactory(h *harness, creds CredentialSource, unix int64, maxRetries int) *Factory {
	return h.factory(FactoryConfig{
		MaxRetries:             maxRetries,
		MaxRetriesRegistration: maxRetries,
		TOTPStep:               30 * time.Second,
		TOTPWindows:            3,
	}, creds, fixedClock(unix))
}

func TestAuthAppValidCodeResetsCounter(t *testing.T) {
	h := newHarness(t)
	f := authAppFactory(h, authAppUser(true), stepStart, 5)
	v := mustValidator(t, f, MethodAuthApp, JourneySignIn, false)

	rej, err := v.ValidateCode(context.Background(), "111111")
	require.NoError(t, err)
	assert.True(t, rej.Is(KindCodeIncorrect))
	assert.Equal(t, CodeAuthAppInvalid, rej.Code)
	assert.Equal(t, 1, h.count(t, MethodAuthApp))

	rej, err = v.ValidateCode(context.Background(), stepCode)
	require.NoError(t, err)
	assert.Nil(t, rej)
	assert.Equal(t, 0, h.count(t, MethodAuthApp))
}

func TestAuthAppWindowEdges(t *testing.T) {
	cases := []struct {
		name string
		unix int64
		ok   bool
	}{
		{"one second before window", stepStart - 31, false},
		{"start of previous step", stepStart - 30, true},
		{"inside current step", stepStart + 15, true},
		{"last second of next step", stepStart + 59, true},
		{"two steps ahead", stepStart + 60, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			v := mustValidator(t, authAppFactory(h, authAppUser(true), tc.unix, 5), MethodAuthApp, JourneySignIn, false)
			rej, err := v.ValidateCode(context.Background(), stepCode)
			require.NoError(t, err)
			if tc.ok {
				assert.Nil(t, rej)
			} else {
				assert.True(t, rej.Is(KindCodeIncorrect), "got %s", rej)
			}
		})
	}
}

func TestAuthAppCountsBeforeEvaluating(t *testing.T) {
	h := newHarness(t)
	f := authAppFactory(h, authAppUser(true), stepStart, 2)
	v := mustValidator(t, f, MethodAuthApp, JourneySignIn, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rej, err := v.ValidateCode(ctx, "111111")
		require.NoError(t, err)
		require.True(t, rej.Is(KindCodeIncorrect))
	}

	rej, err := v.ValidateCode(ctx, stepCode)
	require.NoError(t, err)
	require.True(t, rej.Is(KindRetryLimitExceeded), "limit applies before the code is looked at")
	assert.Equal(t, CodeAuthAppMaxRetries, rej.Code)

	blocked, err := h.codes.IsBlocked(ctx, joe, stores.CodeBlockedPrefix+"AUTH_APP")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, 0, h.count(t, MethodAuthApp), "block replaces the counter")

	rej, err = v.ValidateCode(ctx, stepCode)
	require.NoError(t, err)
	assert.True(t, rej.Is(KindEntryBlocked))
	assert.Equal(t, 0, h.count(t, MethodAuthApp))
}

func TestAuthAppMalformedCodeConsumesAttempt(t *testing.T) {
	h := newHarness(t)
	v := mustValidator(t, authAppFactory(h, authAppUser(true), stepStart, 5), MethodAuthApp, JourneySignIn, false)

	for i, code := range []string{"0", "000000", "1234567", "abcdef", ""} {
		rej, err := v.ValidateCode(context.Background(), code)
		require.NoError(t, err)
		require.True(t, rej.Is(KindMalformedSubmittedCode), "code %q got %s", code, rej)
		assert.Equal(t, CodeAuthAppInvalid, rej.Code)
		assert.Equal(t, i+1, h.count(t, MethodAuthApp))
	}
}

func TestAuthAppCredentialNotFound(t *testing.T) {
	cases := map[string]CredentialSource{
		"disabled method": authAppUser(false),
		"no user":         staticCredentials{},
		"no source":       nil,
		"bad secret": staticCredentials{creds: &UserCredentials{MfaMethods: []MfaMethod{
			{Type: MethodAuthApp, Credential: "not base32!", Enabled: true},
		}}},
	}

	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			v := mustValidator(t, authAppFactory(h, creds, stepStart, 5), MethodAuthApp, JourneySignIn, false)
			rej, err := v.ValidateCode(context.Background(), stepCode)
			require.NoError(t, err)
			assert.True(t, rej.Is(KindCredentialNotFound), "got %s", rej)
			assert.Equal(t, 1, h.count(t, MethodAuthApp))
		})
	}
}

func TestAuthAppCredentialLookupFailure(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("user store down")
	v := mustValidator(t, authAppFactory(h, staticCredentials{err: boom}, stepStart, 5), MethodAuthApp, JourneySignIn, false)

	rej, err := v.ValidateCode(context.Background(), stepCode)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, rej)
}

func TestAuthAppBlockedDoesNotCount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.codes.SaveBlock(ctx, joe, stores.CodeBlockedPrefix+"AUTH_APP", time.Minute))
	v := mustValidator(t, authAppFactory(h, authAppUser(true), stepStart, 5), MethodAuthApp, JourneySignIn, false)

	for i := 0; i < 3; i++ {
		rej, err := v.ValidateCode(ctx, stepCode)
		require.NoError(t, err)
		assert.True(t, rej.Is(KindEntryBlocked))
	}
	assert.Equal(t, 0, h.count(t, MethodAuthApp))
}
