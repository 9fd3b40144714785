package payment

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// NewReference produces the unique per-attempt payment reference. It mixes
// 16 bytes from the system CSPRNG with a monotonic time component and the
// caller-supplied seed, then digests the whole thing, so the value is
// stable-length, URL-safe hex and not derivable without the seed material.
//
// If the random source is unavailable generation fails; there is
// deliberately no fallback to a predictable value.
func NewReference(seed string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("reference entropy unavailable: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(seed))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()))
	h.Write(ts[:])
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}
