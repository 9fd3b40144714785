package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// FormatAmount renders a minor-unit amount with exactly two decimal places
// and a "." separator regardless of locale. Remita hashes break on any
// other formatting.
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

// PaymentHash computes the hash embedded in the outbound payment-init
// request. Field order is fixed by the Remita protocol:
// merchantId + serviceTypeId + reference + amount + apiKey.
func PaymentHash(merchantID, serviceTypeID, reference, amount, apiKey string) string {
	sum := sha512.Sum512([]byte(merchantID + serviceTypeID + reference + amount + apiKey))
	return hex.EncodeToString(sum[:])
}

// VerificationHash computes the hash authenticating the status-check call:
// rrr + apiKey + merchantId. Not interchangeable with PaymentHash; the
// field sets and orderings differ.
func VerificationHash(rrr, apiKey, merchantID string) string {
	sum := sha512.Sum512([]byte(rrr + apiKey + merchantID))
	return hex.EncodeToString(sum[:])
}
