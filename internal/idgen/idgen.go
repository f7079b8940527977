// Package idgen generates the short record identifiers used by every entity.
package idgen

import "math/rand/v2"

const (
	// Length is the number of characters in an identifier.
	Length = 8

	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// New returns a random identifier of Length characters drawn from [0-9A-Z].
// Identifiers are not cryptographically random; collisions are not checked.
func New() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
