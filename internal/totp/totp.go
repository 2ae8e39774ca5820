// Package totp verifies authenticator-app codes (RFC 6238, HMAC-SHA1, six
// digits) with a symmetric clock-skew window, and provisions new shared
// secrets.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	codeDigits = 6
	codeModulo = 1_000_000

	DefaultStep    = 30 * time.Second
	DefaultWindows = 3
)

var (
	ErrMalformedCode = errors.New("totp code malformed")
	ErrInvalidSecret = errors.New("totp secret invalid")
)

// Verifier checks codes against the time steps
// step-(Windows-1)/2 through step+Windows/2.
type Verifier struct {
	step    int64
	windows int
}

func NewVerifier(step time.Duration, windows int) *Verifier {
	if step < time.Second {
		step = DefaultStep
	}
	if windows < 1 {
		windows = DefaultWindows
	}
	return &Verifier{step: int64(step / time.Second), windows: windows}
}

// Offsets returns the inclusive step offsets accepted around the current step.
func (v *Verifier) Offsets() (lo, hi int) {
	return -(v.windows - 1) / 2, v.windows / 2
}

// Verify reports whether code matches any step in the window. A code that is
// not 1 to 6 digits or whose value is 0 yields ErrMalformedCode; an
// undecodable secret yields ErrInvalidSecret.
func (v *Verifier) Verify(secretBase32, code string, now time.Time) (bool, error) {
	submitted, err := parseCode(code)
	if err != nil {
		return false, err
	}

	secret, err := DecodeSecret(secretBase32)
	if err != nil {
		return false, err
	}

	want := []byte(fmt.Sprintf("%0*d", codeDigits, submitted))
	current := now.Unix() / v.step
	lo, hi := v.Offsets()

	matched := false
	for offset := lo; offset <= hi; offset++ {
		counter := current + int64(offset)
		if counter < 0 {
			continue
		}
		got := []byte(fmt.Sprintf("%0*d", codeDigits, HOTP(secret, counter)))
		if subtle.ConstantTimeCompare(got, want) == 1 {
			matched = true
		}
	}
	return matched, nil
}

// HOTP computes the RFC 4226 value for counter, reduced to six digits.
func HOTP(secret []byte, counter int64) int {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	return bin % codeModulo
}

// DecodeSecret accepts Base32 in either case, with or without padding and
// with embedded spaces as authenticator apps display it.
func DecodeSecret(secretBase32 string) ([]byte, error) {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secretBase32), " ", ""))
	cleaned = strings.TrimRight(cleaned, "=")
	if cleaned == "" {
		return nil, ErrInvalidSecret
	}
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return secret, nil
}

func parseCode(code string) (int, error) {
	if len(code) < 1 || len(code) > codeDigits {
		return 0, ErrMalformedCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return 0, ErrMalformedCode
		}
	}
	n, err := strconv.Atoi(code)
	if err != nil || n <= 0 || n >= codeModulo {
		return 0, ErrMalformedCode
	}
	return n, nil
}

// Provision creates a new 20 byte shared secret and its otpauth:// URL.
func Provision(issuer, account string, step time.Duration) (*otp.Key, error) {
	if step < time.Second {
		step = DefaultStep
	}
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      uint(step / time.Second),
		SecretSize:  20,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}
