package contenthash

import (
	"testing"

	"pgregory.net/rapid"
)

// Property: hashing is deterministic.
func TestHashDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		if Hash(text) != Hash(text) {
			t.Fatalf("hash of %q is not stable", text)
		}
		if !Equal(text, text) {
			t.Fatalf("Equal(%q, %q) = false", text, text)
		}
	})
}

// Property: realistic distinct texts produce distinct digests.
func TestHashDistinguishesEdits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringN(0, 200, -1).Draw(t, "a")
		b := rapid.StringN(0, 200, -1).Draw(t, "b")
		if a == b {
			t.Skip("identical draw")
		}
		if Hash(a) == Hash(b) {
			t.Fatalf("collision between %q and %q", a, b)
		}
	})
}

func TestHashTrailingNewlineMatters(t *testing.T) {
	if Equal("hello", "hello\n") {
		t.Fatal("expected a trailing newline to change the digest")
	}
}
