package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{100, "1.00"},
		{5000, "50.00"},
		{123456, "1234.56"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.minor); got != c.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", c.minor, got, c.want)
		}
	}
}

func TestPaymentHash(t *testing.T) {
	// The hash must be the digest of the exact concatenation
	// merchantId + serviceTypeId + reference + amount + apiKey.
	sum := sha512.Sum512([]byte("M1S1R1100.00K1"))
	want := hex.EncodeToString(sum[:])

	got := PaymentHash("M1", "S1", "R1", "100.00", "K1")
	if got != want {
		t.Errorf("PaymentHash = %s, want %s", got, want)
	}

	// Deterministic across calls.
	if again := PaymentHash("M1", "S1", "R1", "100.00", "K1"); again != got {
		t.Error("PaymentHash is not deterministic")
	}
}

func TestVerificationHash(t *testing.T) {
	sum := sha512.Sum512([]byte("RRR123KEYMERCHANT"))
	want := hex.EncodeToString(sum[:])

	if got := VerificationHash("RRR123", "KEY", "MERCHANT"); got != want {
		t.Errorf("VerificationHash = %s, want %s", got, want)
	}
}

func TestHashesAreNotInterchangeable(t *testing.T) {
	// Same field values, different operations: the orderings differ, so
	// the digests must differ.
	p := PaymentHash("M1", "", "R1", "", "K1")
	v := VerificationHash("R1", "K1", "M1")
	if p == v {
		t.Error("payment and verification hashes must not collide for reordered inputs")
	}
}
