package authcore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, with dots in the key
// replaced by underscores: AUTHCORE_RETRIES_MAX_RETRIES.
const EnvPrefix = "AUTHCORE"

// LoadConfig reads configuration from path (any format viper understands),
// then applies environment overrides, on top of [DefaultConfig]. An empty
// path searches ./authcore.yaml, ./configs and /etc/authcore; a missing file
// is not an error. The result is validated.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("authcore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/authcore")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that the
// file does not mention.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("codes.code_expiry", d.Codes.CodeExpiry)
	v.SetDefault("codes.max_code_requests", d.Codes.MaxCodeRequests)
	v.SetDefault("codes.request_block_duration", d.Codes.RequestBlockDuration)
	v.SetDefault("codes.reset_link_ttl", d.Codes.ResetLinkTTL)

	v.SetDefault("retries.max_retries", d.Retries.MaxRetries)
	v.SetDefault("retries.max_retries_registration", d.Retries.MaxRetriesRegistration)
	v.SetDefault("retries.block_duration", d.Retries.BlockDuration)
	v.SetDefault("retries.attempt_ttl", d.Retries.AttemptTTL)
	v.SetDefault("retries.atomic_increments", d.Retries.AtomicIncrements)
	v.SetDefault("retries.sum_legacy_counters", d.Retries.SumLegacyCounters)
	v.SetDefault("retries.max_password_retries", d.Retries.MaxPasswordRetries)
	v.SetDefault("retries.account_recovery_block_duration", d.Retries.AccountRecoveryBlockDuration)

	v.SetDefault("totp.step", d.TOTP.Step)
	v.SetDefault("totp.windows", d.TOTP.Windows)
	v.SetDefault("totp.issuer", d.TOTP.Issuer)

	v.SetDefault("test_clients.enabled", d.TestClients.Enabled)
	v.SetDefault("test_clients.email_otp", d.TestClients.EmailOTP)
	v.SetDefault("test_clients.phone_otp", d.TestClients.PhoneOTP)
	v.SetDefault("test_clients.allowed_emails", d.TestClients.AllowedEmails)

	v.SetDefault("store.addr", d.Store.Addr)
	v.SetDefault("store.password", d.Store.Password)
	v.SetDefault("store.db", d.Store.DB)
	v.SetDefault("store.dial_timeout", d.Store.DialTimeout)
	v.SetDefault("store.read_timeout", d.Store.ReadTimeout)
	v.SetDefault("store.write_timeout", d.Store.WriteTimeout)
	v.SetDefault("store.pool_size", d.Store.PoolSize)

	v.SetDefault("breaker.enabled", d.Breaker.Enabled)
	v.SetDefault("breaker.failure_threshold", d.Breaker.FailureThreshold)
	v.SetDefault("breaker.max_requests", d.Breaker.MaxRequests)
	v.SetDefault("breaker.interval", d.Breaker.Interval)
	v.SetDefault("breaker.timeout", d.Breaker.Timeout)

	v.SetDefault("audit.enabled", d.Audit.Enabled)
	v.SetDefault("audit.buffer_size", d.Audit.BufferSize)
	v.SetDefault("audit.drop_if_full", d.Audit.DropIfFull)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.add_caller", d.Logging.AddCaller)
	v.SetDefault("logging.stacktrace", d.Logging.Stacktrace)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}
