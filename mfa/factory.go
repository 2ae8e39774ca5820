package mfa

import (
	"time"

	"github.com/digital-identity/authcore/internal/totp"
)

// FactoryConfig carries the retry and test-client policy shared by every
// validator the factory builds.
type FactoryConfig struct {
	MaxRetries             int
	MaxRetriesRegistration int
	BlockDuration          time.Duration

	// TestClientsEnabled gates the fixed OTPs below. Even a flagged test
	// client gets the stored code when this is false.
	TestClientsEnabled bool
	TestEmailOTP       string
	TestPhoneOTP       string

	TOTPStep    time.Duration
	TOTPWindows int

	Errors ErrorTable
}

// Factory selects a validator variant by method and journey.
type Factory struct {
	config      FactoryConfig
	codes       CodeRepository
	attempts    AttemptCounter
	credentials CredentialSource
	verifier    *totp.Verifier
	now         func() time.Time
}

type FactoryOption func(*Factory)

// WithClock overrides the wall clock used for TOTP verification.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

func NewFactory(cfg FactoryConfig, codes CodeRepository, attempts AttemptCounter, credentials CredentialSource, opts ...FactoryOption) *Factory {
	if cfg.Errors == nil {
		cfg.Errors = DefaultErrorTable()
	}
	f := &Factory{
		config:      cfg,
		codes:       codes,
		attempts:    attempts,
		credentials: credentials,
		verifier:    totp.NewVerifier(cfg.TOTPStep, cfg.TOTPWindows),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxRetries returns the limit for a journey. Registration has its own.
func (f *Factory) MaxRetries(journey JourneyType) int {
	if journey == JourneyRegistration {
		return f.config.MaxRetriesRegistration
	}
	return f.config.MaxRetries
}

// Validator returns the variant for method on journey, or false when the
// combination is not supported. Callers treat false as a configuration error.
func (f *Factory) Validator(method MethodType, journey JourneyType, testClient bool, identity Identity) (Validator, bool) {
	if method == MethodAuthApp {
		return &AuthAppCodeValidator{
			identity:    identity.Email,
			policy:      f.policy(journey, ChannelAuthApp),
			codes:       f.codes,
			attempts:    f.attempts,
			credentials: f.credentials,
			verifier:    f.verifier,
			now:         f.now,
		}, true
	}

	notification, ok := NotificationFor(method, journey)
	if !ok {
		return nil, false
	}
	channel := channels[notification]
	base := otpValidator{
		identity: identity.Email,
		channel:  channel,
		policy:   f.policy(journey, channel.Name),
		testOTP:  f.testOTP(method, testClient),
		codes:    f.codes,
		attempts: f.attempts,
	}

	switch method {
	case MethodEmail:
		return &EmailCodeValidator{otpValidator: base}, true
	case MethodSMS:
		return &PhoneNumberCodeValidator{otpValidator: base}, true
	default:
		return nil, false
	}
}

// ForNotification routes a notification type to its method and journey and
// returns the matching validator.
func (f *Factory) ForNotification(n NotificationType, testClient bool, identity Identity) (Validator, bool) {
	method, journey, ok := RouteNotification(n)
	if !ok {
		return nil, false
	}
	return f.Validator(method, journey, testClient, identity)
}

func (f *Factory) policy(journey JourneyType, channel string) Policy {
	return Policy{
		MaxRetries:    f.MaxRetries(journey),
		BlockDuration: f.config.BlockDuration,
		Errors:        f.config.Errors.For(channel),
	}
}

func (f *Factory) testOTP(method MethodType, testClient bool) string {
	if !testClient || !f.config.TestClientsEnabled {
		return ""
	}
	switch method {
	case MethodEmail:
		return f.config.TestEmailOTP
	case MethodSMS:
		return f.config.TestPhoneOTP
	}
	return ""
}
