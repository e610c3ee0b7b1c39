// Package entropy draws seeds from crypto/rand for runs that do not pin one.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"math"
)

// fallbackSeed is used when the system entropy source is unavailable.
const fallbackSeed int64 = 1

// Seed returns a positive random seed. Zero is never returned, since a
// zero seed means "draw one" in the run configuration.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Warn("crypto/rand unavailable, using fallback seed", "error", err)
		return fallbackSeed
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) & math.MaxInt64)
	if n == 0 {
		return fallbackSeed
	}
	return n
}
