package journey

import (
	"strings"

	"github.com/google/uuid"

	"github.com/digital-identity/authcore/mfa"
)

// CredentialTrustLevel is the strength of the credentials presented so far.
type CredentialTrustLevel string

const (
	LowLevel    CredentialTrustLevel = "Cl"
	MediumLevel CredentialTrustLevel = "Cl.Cm"
)

// Session is the journey record shared between requests. The store that
// persists it, and its TTL, live outside this module.
type Session struct {
	ID                        string               `json:"session_id"`
	EmailAddress              string               `json:"email_address,omitempty"`
	State                     State                `json:"state"`
	CodeRequestCount          int                  `json:"code_request_count"`
	VerifiedMfaMethodType     mfa.MethodType       `json:"verified_mfa_method_type,omitempty"`
	CurrentCredentialStrength CredentialTrustLevel `json:"current_credential_strength,omitempty"`
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		State: New,
	}
}

// ValidateSession reports whether email belongs to this session.
func (s *Session) ValidateSession(email string) bool {
	return s.EmailAddress != "" &&
		strings.EqualFold(strings.TrimSpace(s.EmailAddress), strings.TrimSpace(email))
}

func (s *Session) IncrementCodeRequestCount() {
	s.CodeRequestCount++
}

func (s *Session) ResetCodeRequestCount() {
	s.CodeRequestCount = 0
}
