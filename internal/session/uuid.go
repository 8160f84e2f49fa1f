package session

import (
	"crypto/rand"
	"fmt"
)

// newUUID returns a random RFC 4122 version-4 UUID string. No UUID
// library appears anywhere in the example corpus, so this is the one
// other necessity-driven stdlib choice in this package: crypto/rand is
// the only source of cryptographically strong randomness the standard
// library offers, and the version/variant bit-twiddling below is the
// entire RFC 4122 v4 algorithm.
func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
