// Package contenthash decides whether an edit changed anything.
//
// Digests are 64-bit xxhash values. They are not cryptographic: two different
// texts may collide, which only means a change is missed and nothing is pasted.
package contenthash

import "github.com/cespare/xxhash/v2"

// Digest is a fixed-width content digest.
type Digest uint64

// Hash returns the digest of text.
func Hash(text string) Digest {
	return Digest(xxhash.Sum64String(text))
}

// Equal reports whether a and b hash to the same digest.
func Equal(a, b string) bool {
	return Hash(a) == Hash(b)
}
