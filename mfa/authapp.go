package mfa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digital-identity/authcore/internal/totp"
)

// CredentialSource looks up a user's registered second factors.
type CredentialSource interface {
	UserCredentials(ctx context.Context, email string) (*UserCredentials, error)
}

// AuthAppCodeValidator validates authenticator-app TOTP codes. The attempt is
// counted before the code is evaluated, so a guess costs the same whether it
// is right or wrong.
type AuthAppCodeValidator struct {
	identity string
	policy   Policy

	codes       CodeRepository
	attempts    AttemptCounter
	credentials CredentialSource
	verifier    *totp.Verifier
	now         func() time.Time
}

func (v *AuthAppCodeValidator) Blocked(ctx context.Context) (*Rejection, error) {
	return blockedRejection(ctx, v.codes, v.identity, authAppChannel, v.policy)
}

func (v *AuthAppCodeValidator) ValidateCode(ctx context.Context, code string) (*Rejection, error) {
	if rej, err := v.Blocked(ctx); rej != nil || err != nil {
		return rej, err
	}

	method := MethodAuthApp.KeyTag()
	count, err := v.attempts.Increment(ctx, v.identity, method)
	if err != nil {
		return nil, err
	}
	if count > v.policy.MaxRetries {
		if err := blockEntry(ctx, v.codes, v.attempts, v.identity, authAppChannel, v.policy); err != nil {
			return nil, err
		}
		return &Rejection{Kind: KindRetryLimitExceeded, Code: v.policy.Errors.MaxRetries}, nil
	}

	secret, ok, err := v.secret(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Rejection{Kind: KindCredentialNotFound, Code: v.policy.Errors.CredentialNotFound}, nil
	}

	matched, err := v.verifier.Verify(secret, code, v.now())
	switch {
	case errors.Is(err, totp.ErrMalformedCode):
		return &Rejection{Kind: KindMalformedSubmittedCode, Code: v.policy.Errors.Malformed}, nil
	case errors.Is(err, totp.ErrInvalidSecret):
		return &Rejection{Kind: KindCredentialNotFound, Code: v.policy.Errors.CredentialNotFound}, nil
	case err != nil:
		return nil, err
	case !matched:
		return &Rejection{Kind: KindCodeIncorrect, Code: v.policy.Errors.Incorrect}, nil
	}

	if err := v.attempts.Reset(ctx, v.identity, method); err != nil {
		return nil, err
	}
	return nil, nil
}

func (v *AuthAppCodeValidator) secret(ctx context.Context) (string, bool, error) {
	if v.credentials == nil {
		return "", false, nil
	}
	creds, err := v.credentials.UserCredentials(ctx, v.identity)
	if err != nil {
		return "", false, fmt.Errorf("load credentials: %w", err)
	}
	m, ok := creds.EnabledAuthApp()
	return m.Credential, ok, nil
}
