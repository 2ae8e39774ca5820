package authcore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digital-identity/authcore/mfa"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"code expiry", func(c *Config) { c.Codes.CodeExpiry = 0 }, "CodeExpiry"},
		{"max code requests", func(c *Config) { c.Codes.MaxCodeRequests = 0 }, "MaxCodeRequests"},
		{"max retries", func(c *Config) { c.Retries.MaxRetries = -1 }, "MaxRetries"},
		{"registration retries", func(c *Config) { c.Retries.MaxRetriesRegistration = 0 }, "MaxRetriesRegistration"},
		{"block duration", func(c *Config) { c.Retries.BlockDuration = 0 }, "BlockDuration"},
		{"recovery block duration", func(c *Config) { c.Retries.AccountRecoveryBlockDuration = 0 }, "AccountRecoveryBlockDuration"},
		{"totp step", func(c *Config) { c.TOTP.Step = time.Millisecond }, "TOTP Step"},
		{"totp windows", func(c *Config) { c.TOTP.Windows = 0 }, "TOTP Windows"},
		{"test otp format", func(c *Config) {
			c.TestClients.Enabled = true
			c.TestClients.EmailOTP = "12345"
		}, "EmailOTP"},
		{"test otp missing", func(c *Config) { c.TestClients.Enabled = true }, "requires"},
		{"breaker timeout", func(c *Config) { c.Breaker.Timeout = 0 }, "Breaker"},
		{"audit buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}, "Audit"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "Logging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCloneConfigCopiesSlicesAndMaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TestClients.AllowedEmails = []string{"a@example.com"}
	cfg.ErrorCodes = mfa.ErrorTable{"VERIFY_EMAIL": {Incorrect: 9001}}

	out := cloneConfig(cfg)
	cfg.TestClients.AllowedEmails[0] = "changed@example.com"
	cfg.ErrorCodes["VERIFY_EMAIL"] = mfa.ChannelErrors{Incorrect: 1}

	assert.Equal(t, "a@example.com", out.TestClients.AllowedEmails[0])
	assert.Equal(t, mfa.ErrorCode(9001), out.ErrorCodes["VERIFY_EMAIL"].Incorrect)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Codes, cfg.Codes)
	assert.Equal(t, DefaultConfig().Retries, cfg.Retries)
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authcore.yaml")
	body := strings.Join([]string{
		"codes:",
		"  code_expiry: 10m",
		"  max_code_requests: 3",
		"retries:",
		"  max_retries: 4",
		"  atomic_increments: true",
		"test_clients:",
		"  enabled: true",
		"  email_otp: \"222222\"",
		"  allowed_emails:",
		"    - qa@example.com",
		"error_codes:",
		"  VERIFY_EMAIL:",
		"    incorrect: 2036",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Codes.CodeExpiry)
	assert.Equal(t, 3, cfg.Codes.MaxCodeRequests)
	assert.Equal(t, 4, cfg.Retries.MaxRetries)
	assert.True(t, cfg.Retries.AtomicIncrements)
	assert.Equal(t, DefaultConfig().Retries.MaxRetriesRegistration, cfg.Retries.MaxRetriesRegistration)
	assert.Equal(t, []string{"qa@example.com"}, cfg.TestClients.AllowedEmails)

	codes := cfg.ErrorCodes.For(string(mfa.VerifyEmail))
	assert.Equal(t, mfa.ErrorCode(2036), codes.Incorrect)
	assert.Equal(t, mfa.CodeEmailMaxRetries, codes.MaxRetries)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTHCORE_RETRIES_MAX_RETRIES", "7")
	t.Setenv("AUTHCORE_CODES_REQUEST_BLOCK_DURATION", "2h")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retries.MaxRetries)
	assert.Equal(t, 2*time.Hour, cfg.Codes.RequestBlockDuration)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTHCORE_RETRIES_MAX_RETRIES", "0")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
