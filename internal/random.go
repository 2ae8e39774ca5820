package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// OTPDigits is the length of every emailed or texted one-time code.
	OTPDigits = 6

	resetTokenSize = 20
)

// SixDigitCode returns a uniformly random, zero-padded six digit code.
func SixDigitCode() (string, error) {
	return NewOTP(OTPDigits)
}

// NewOTP builds the code one decimal digit at a time so every digit is
// drawn independently from crypto/rand.
func NewOTP(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	otp := b.String()
	if len(otp) != digits {
		return "", fmt.Errorf("invalid otp generation length")
	}
	return otp, nil
}

// HighEntropyToken returns 20 random bytes encoded as unpadded base64url,
// safe to embed in a password reset link.
func HighEntropyToken() (string, error) {
	var raw [resetTokenSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// HashIdentity normalizes an identity (trim, lowercase) and returns the hex
// SHA-256 digest used as the owner part of every store key.
func HashIdentity(identity string) string {
	normalized := strings.ToLower(strings.TrimSpace(identity))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
