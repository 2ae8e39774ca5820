package mfa

import (
	"context"
	"crypto/subtle"
	"time"
)

// Validator checks one submitted code. A nil Rejection with a nil error is
// success. The error return is reserved for hard failures such as an
// unreachable store; user-facing outcomes are always a Rejection.
//
// Blocked answers only whether code entry is blocked, without consuming an
// attempt. It returns the EntryBlocked rejection ValidateCode would, or nil.
type Validator interface {
	ValidateCode(ctx context.Context, code string) (*Rejection, error)
	Blocked(ctx context.Context) (*Rejection, error)
}

// CodeRepository is the part of the code store the validators read and write.
type CodeRepository interface {
	GetOTP(ctx context.Context, identity, channelPrefix string) (string, bool, error)
	IsBlocked(ctx context.Context, identity, scopePrefix string) (bool, error)
	SaveBlock(ctx context.Context, identity, scopePrefix string, ttl time.Duration) error
}

// AttemptCounter is the per-method incorrect attempt counter.
type AttemptCounter interface {
	Increment(ctx context.Context, identity, method string) (int, error)
	Reset(ctx context.Context, identity, method string) error
}

// Policy is the retry policy a validator instance enforces.
type Policy struct {
	MaxRetries    int
	BlockDuration time.Duration
	Errors        ChannelErrors
}

// otpValidator is the shared shape of the emailed and texted code validators.
type otpValidator struct {
	identity string
	channel  Channel
	policy   Policy
	testOTP  string

	codes    CodeRepository
	attempts AttemptCounter
}

// EntryBlocked reports whether any of scopes holds a block for identity,
// checking them in order.
func EntryBlocked(ctx context.Context, codes CodeRepository, identity string, scopes []string) (bool, error) {
	for _, scope := range scopes {
		blocked, err := codes.IsBlocked(ctx, identity, scope)
		if err != nil || blocked {
			return blocked, err
		}
	}
	return false, nil
}

// blockedRejection returns the entry-blocked rejection when channel is
// blocked for identity, and nil otherwise.
func blockedRejection(ctx context.Context, codes CodeRepository, identity string, channel Channel, policy Policy) (*Rejection, error) {
	blocked, err := EntryBlocked(ctx, codes, identity, channel.EntryScopes())
	if err != nil || !blocked {
		return nil, err
	}
	return &Rejection{Kind: KindEntryBlocked, Code: policy.Errors.Blocked}, nil
}

// Blocked checks the entry blocks alone. It reads nothing else and counts
// nothing.
func (v *otpValidator) Blocked(ctx context.Context) (*Rejection, error) {
	return blockedRejection(ctx, v.codes, v.identity, v.channel, v.policy)
}

func (v *otpValidator) validate(ctx context.Context, code string) (*Rejection, error) {
	if rej, err := v.Blocked(ctx); rej != nil || err != nil {
		return rej, err
	}

	var err error
	expected, found := v.testOTP, v.testOTP != ""
	if !found {
		expected, found, err = v.codes.GetOTP(ctx, v.identity, v.channel.CodePrefix)
		if err != nil {
			return nil, err
		}
	}

	method := v.channel.Method.KeyTag()
	if found && code != "" && subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1 {
		if err := v.attempts.Reset(ctx, v.identity, method); err != nil {
			return nil, err
		}
		return nil, nil
	}

	count, err := v.attempts.Increment(ctx, v.identity, method)
	if err != nil {
		return nil, err
	}
	if count > v.policy.MaxRetries {
		if err := blockEntry(ctx, v.codes, v.attempts, v.identity, v.channel, v.policy); err != nil {
			return nil, err
		}
		return &Rejection{Kind: KindRetryLimitExceeded, Code: v.policy.Errors.MaxRetries}, nil
	}
	if !found {
		return &Rejection{Kind: KindCodeMissingOrExpired, Code: v.policy.Errors.Incorrect}, nil
	}
	return &Rejection{Kind: KindCodeIncorrect, Code: v.policy.Errors.Incorrect}, nil
}

// blockEntry writes the channel's entry block and clears the counter the
// block replaces.
func blockEntry(ctx context.Context, codes CodeRepository, attempts AttemptCounter, identity string, channel Channel, policy Policy) error {
	if err := codes.SaveBlock(ctx, identity, channel.BlockScope, policy.BlockDuration); err != nil {
		return err
	}
	return attempts.Reset(ctx, identity, channel.Method.KeyTag())
}

// EmailCodeValidator validates codes sent by email: address verification,
// password reset with code and account recovery.
type EmailCodeValidator struct {
	otpValidator
}

func (v *EmailCodeValidator) ValidateCode(ctx context.Context, code string) (*Rejection, error) {
	return v.validate(ctx, code)
}

// PhoneNumberCodeValidator validates codes sent by SMS, both for phone
// number verification and sign-in MFA.
type PhoneNumberCodeValidator struct {
	otpValidator
}

func (v *PhoneNumberCodeValidator) ValidateCode(ctx context.Context, code string) (*Rejection, error) {
	return v.validate(ctx, code)
}
