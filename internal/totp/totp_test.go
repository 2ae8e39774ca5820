package totp

import (
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// base32("12345678901234567890"), the RFC 6238 SHA1 seed.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestVerifyRFCVectorsSixDigits(t *testing.T) {
	v := NewVerifier(30*time.Second, 1)
	cases := []struct {
		ts   int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tc := range cases {
		ok, err := v.Verify(rfcSecret, tc.code, time.Unix(tc.ts, 0))
		if err != nil || !ok {
			t.Fatalf("vector failed at t=%d, ok=%v err=%v", tc.ts, ok, err)
		}
	}
}

func TestVerifyAcceptsLeadingZeroesDropped(t *testing.T) {
	v := NewVerifier(30*time.Second, 1)
	ok, err := v.Verify(rfcSecret, "5924", time.Unix(1234567890, 0))
	if err != nil || !ok {
		t.Fatalf("numeric value match expected, ok=%v err=%v", ok, err)
	}
}

// Step 1000 has code 450130. With three windows the code is accepted while
// the clock maps to steps 999, 1000 or 1001.
func TestVerifyWindowEdges(t *testing.T) {
	v := NewVerifier(30*time.Second, 3)
	const code = "450130"
	boundary := int64(1000 * 30)

	cases := []struct {
		name string
		ts   int64
		want bool
	}{
		{"just before window", boundary - 31, false},
		{"window start", boundary - 30, true},
		{"step boundary", boundary, true},
		{"last second of window", boundary + 59, true},
		{"window end", boundary + 60, false},
	}

	for _, tc := range cases {
		ok, err := v.Verify(rfcSecret, code, time.Unix(tc.ts, 0))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if ok != tc.want {
			t.Fatalf("%s: ok=%v want %v", tc.name, ok, tc.want)
		}
	}
}

func TestOffsets(t *testing.T) {
	cases := []struct {
		windows int
		lo, hi  int
	}{
		{1, 0, 0},
		{2, 0, 1},
		{3, -1, 1},
		{4, -1, 2},
		{5, -2, 2},
	}
	for _, tc := range cases {
		lo, hi := NewVerifier(30*time.Second, tc.windows).Offsets()
		if lo != tc.lo || hi != tc.hi {
			t.Fatalf("windows=%d offsets=(%d,%d) want (%d,%d)", tc.windows, lo, hi, tc.lo, tc.hi)
		}
	}
}

func TestVerifyRejectsMalformedCodes(t *testing.T) {
	v := NewVerifier(30*time.Second, 3)
	for _, code := range []string{"", "0", "000000", "1234567", "12a456", " 12345", "-12345", "+1"} {
		ok, err := v.Verify(rfcSecret, code, time.Unix(59, 0))
		if !errors.Is(err, ErrMalformedCode) || ok {
			t.Fatalf("code %q: ok=%v err=%v, want ErrMalformedCode", code, ok, err)
		}
	}
}

func TestVerifyInvalidSecret(t *testing.T) {
	v := NewVerifier(30*time.Second, 3)
	for _, secret := range []string{"", "!!!!", "1"} {
		_, err := v.Verify(secret, "123456", time.Unix(59, 0))
		if !errors.Is(err, ErrInvalidSecret) {
			t.Fatalf("secret %q: err=%v, want ErrInvalidSecret", secret, err)
		}
	}
}

func TestDecodeSecretIsLenient(t *testing.T) {
	raw, err := DecodeSecret("gezd gnbv gy3t qojq gezd gnbv gy3t qojq====")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw) != "12345678901234567890" {
		t.Fatalf("decoded %q", raw)
	}
}

func TestVerifyMatchesPquernaGenerator(t *testing.T) {
	key, err := Provision("authcore", "joe@example.com", 30*time.Second)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if key.Issuer() != "authcore" || key.AccountName() != "joe@example.com" {
		t.Fatalf("unexpected key labels: %s", key.URL())
	}

	now := time.Unix(1700000000, 0)
	code, err := totp.GenerateCodeCustom(key.Secret(), now, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	v := NewVerifier(30*time.Second, 3)
	ok, err := v.Verify(key.Secret(), code, now)
	if code == "000000" {
		if !errors.Is(err, ErrMalformedCode) {
			t.Fatalf("zero code must be rejected as malformed, err=%v", err)
		}
		return
	}
	if err != nil || !ok {
		t.Fatalf("generated code %s rejected, ok=%v err=%v", code, ok, err)
	}
}
