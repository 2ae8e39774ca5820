package journey

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-identity/authcore/mfa"
)

func TestNewSession(t *testing.T) {
	s := NewSession()
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, New, s.State)
	assert.Zero(t, s.CodeRequestCount)
	assert.NotEqual(t, s.ID, NewSession().ID)
}

func TestValidateSession(t *testing.T) {
	s := NewSession()
	assert.False(t, s.ValidateSession(""), "empty session email never matches")

	s.EmailAddress = "Joe@Example.com"
	assert.True(t, s.ValidateSession(" joe@example.com "))
	assert.False(t, s.ValidateSession("jane@example.com"))
}

func TestCodeRequestCount(t *testing.T) {
	s := NewSession()
	s.IncrementCodeRequestCount()
	s.IncrementCodeRequestCount()
	assert.Equal(t, 2, s.CodeRequestCount)
	s.ResetCodeRequestCount()
	assert.Zero(t, s.CodeRequestCount)
}

func TestSessionJSON(t *testing.T) {
	s := &Session{
		ID:                        "abc",
		EmailAddress:              "joe@example.com",
		State:                     MfaCodeVerified,
		CodeRequestCount:          1,
		VerifiedMfaMethodType:     mfa.MethodSMS,
		CurrentCredentialStrength: MediumLevel,
	}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"session_id": "abc",
		"email_address": "joe@example.com",
		"state": "MFA_CODE_VERIFIED",
		"code_request_count": 1,
		"verified_mfa_method_type": "SMS",
		"current_credential_strength": "Cl.Cm"
	}`, string(raw))
}
