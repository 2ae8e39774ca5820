package authcore

import (
	"errors"
	"strings"
	"time"

	"github.com/digital-identity/authcore/mfa"
)

// Config is the complete engine configuration. Build it with [DefaultConfig]
// and adjust fields, or load it with [LoadConfig].
//
// Config values are copied into the engine at Build time and treated as
// immutable afterwards.
type Config struct {
	Codes       CodesConfig      `mapstructure:"codes"`
	Retries     RetriesConfig    `mapstructure:"retries"`
	TOTP        TOTPConfig       `mapstructure:"totp"`
	TestClients TestClientConfig `mapstructure:"test_clients"`
	Store       StoreConfig      `mapstructure:"store"`
	Breaker     BreakerConfig    `mapstructure:"breaker"`
	Audit       AuditConfig      `mapstructure:"audit"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`

	// ErrorCodes overrides the numeric codes reported per channel. Missing
	// channels and zero entries keep their defaults.
	ErrorCodes mfa.ErrorTable `mapstructure:"error_codes"`
}

/*
====================================
CODES CONFIG
====================================
*/

// CodesConfig controls code issuance.
type CodesConfig struct {
	// CodeExpiry is the lifetime of an emailed or texted code.
	CodeExpiry time.Duration `mapstructure:"code_expiry"`

	// MaxCodeRequests is how many codes a session may request before the
	// identity is blocked from requesting more for RequestBlockDuration.
	MaxCodeRequests      int           `mapstructure:"max_code_requests"`
	RequestBlockDuration time.Duration `mapstructure:"request_block_duration"`

	// ResetLinkTTL bounds a password reset link.
	ResetLinkTTL time.Duration `mapstructure:"reset_link_ttl"`
}

/*
====================================
RETRIES CONFIG
====================================
*/

// RetriesConfig controls incorrect-entry counting and blocks.
type RetriesConfig struct {
	// MaxRetries is the number of incorrect entries allowed before the next
	// one blocks the channel. Registration journeys use
	// MaxRetriesRegistration instead.
	MaxRetries             int           `mapstructure:"max_retries"`
	MaxRetriesRegistration int           `mapstructure:"max_retries_registration"`
	BlockDuration          time.Duration `mapstructure:"block_duration"`

	// AttemptTTL is the sliding lifetime of an attempt counter.
	AttemptTTL time.Duration `mapstructure:"attempt_ttl"`

	// AtomicIncrements counts with INCR instead of read-then-write. The
	// default read-then-write path can undercount under concurrent
	// submissions for one identity.
	AtomicIncrements bool `mapstructure:"atomic_increments"`

	// SumLegacyCounters adds the pre-scoping unscoped counter to every
	// scoped count. Rollout-only; disable once legacy keys have expired.
	SumLegacyCounters bool `mapstructure:"sum_legacy_counters"`

	MaxPasswordRetries int `mapstructure:"max_password_retries"`

	// AccountRecoveryBlockDuration is how long an account recovery block
	// stands when nothing clears it first.
	AccountRecoveryBlockDuration time.Duration `mapstructure:"account_recovery_block_duration"`
}

/*
====================================
TOTP CONFIG
====================================
*/

type TOTPConfig struct {
	Step    time.Duration `mapstructure:"step"`
	Windows int           `mapstructure:"windows"`
	Issuer  string        `mapstructure:"issuer"`
}

/*
====================================
TEST CLIENT CONFIG
====================================
*/

// TestClientConfig enables fixed codes for automated test clients. Both the
// switch and the client flag must be set; AllowedEmails narrows it further
// when non-empty.
type TestClientConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	EmailOTP      string   `mapstructure:"email_otp"`
	PhoneOTP      string   `mapstructure:"phone_otp"`
	AllowedEmails []string `mapstructure:"allowed_emails"`
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig describes the Redis endpoint for callers that let the engine
// dial it. See [NewRedisClient].
type StoreConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

/*
====================================
BREAKER CONFIG
====================================
*/

// BreakerConfig guards the code store with a circuit breaker. While open,
// every store call fails with ErrStoreUnavailable.
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

/*
====================================
AUDIT / LOGGING / METRICS CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	BufferSize int  `mapstructure:"buffer_size"`
	DropIfFull bool `mapstructure:"drop_if_full"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	AddCaller  bool   `mapstructure:"add_caller"`
	Stacktrace bool   `mapstructure:"stacktrace"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Codes: CodesConfig{
			CodeExpiry:           900 * time.Second,
			MaxCodeRequests:      5,
			RequestBlockDuration: 900 * time.Second,
			ResetLinkTTL:         900 * time.Second,
		},
		Retries: RetriesConfig{
			MaxRetries:             5,
			MaxRetriesRegistration: 5,
			BlockDuration:          900 * time.Second,
			AttemptTTL:             900 * time.Second,
			MaxPasswordRetries:     5,

			AccountRecoveryBlockDuration: 48 * time.Hour,
		},
		TOTP: TOTPConfig{
			Step:    30 * time.Second,
			Windows: 3,
			Issuer:  "authcore",
		},
		Store: StoreConfig{
			Addr:         "localhost:6379",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          30 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Output:    "stdout",
			AddCaller: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.TestClients.AllowedEmails != nil {
		out.TestClients.AllowedEmails = append([]string(nil), cfg.TestClients.AllowedEmails...)
	}
	if cfg.ErrorCodes != nil {
		out.ErrorCodes = make(mfa.ErrorTable, len(cfg.ErrorCodes))
		for k, v := range cfg.ErrorCodes {
			out.ErrorCodes[k] = v
		}
	}
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field. Build calls it.
func (c *Config) Validate() error {
	// Codes
	if c.Codes.CodeExpiry <= 0 {
		return errors.New("Codes CodeExpiry must be > 0")
	}
	if c.Codes.MaxCodeRequests <= 0 {
		return errors.New("Codes MaxCodeRequests must be > 0")
	}
	if c.Codes.RequestBlockDuration <= 0 {
		return errors.New("Codes RequestBlockDuration must be > 0")
	}
	if c.Codes.ResetLinkTTL <= 0 {
		return errors.New("Codes ResetLinkTTL must be > 0")
	}

	// Retries
	if c.Retries.MaxRetries <= 0 {
		return errors.New("Retries MaxRetries must be > 0")
	}
	if c.Retries.MaxRetriesRegistration <= 0 {
		return errors.New("Retries MaxRetriesRegistration must be > 0")
	}
	if c.Retries.BlockDuration <= 0 {
		return errors.New("Retries BlockDuration must be > 0")
	}
	if c.Retries.AttemptTTL <= 0 {
		return errors.New("Retries AttemptTTL must be > 0")
	}
	if c.Retries.MaxPasswordRetries <= 0 {
		return errors.New("Retries MaxPasswordRetries must be > 0")
	}
	if c.Retries.AccountRecoveryBlockDuration <= 0 {
		return errors.New("Retries AccountRecoveryBlockDuration must be > 0")
	}

	// TOTP
	if c.TOTP.Step < time.Second {
		return errors.New("TOTP Step must be >= 1s")
	}
	if c.TOTP.Windows < 1 {
		return errors.New("TOTP Windows must be >= 1")
	}

	// Test clients
	if c.TestClients.Enabled {
		if !isSixDigits(c.TestClients.EmailOTP) && c.TestClients.EmailOTP != "" {
			return errors.New("TestClients EmailOTP must be six digits")
		}
		if !isSixDigits(c.TestClients.PhoneOTP) && c.TestClients.PhoneOTP != "" {
			return errors.New("TestClients PhoneOTP must be six digits")
		}
		if c.TestClients.EmailOTP == "" && c.TestClients.PhoneOTP == "" {
			return errors.New("TestClients requires EmailOTP or PhoneOTP when enabled")
		}
	}

	// Breaker
	if c.Breaker.Enabled && c.Breaker.Timeout <= 0 {
		return errors.New("Breaker Timeout must be > 0 when enabled")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	// Logging
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return errors.New("Logging Format must be 'json' or 'console'")
	}

	return nil
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
