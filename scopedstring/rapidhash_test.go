package scopedstring

import (
	"bytes"
	"testing"
)

// Lengths chosen to land in every reading path: the tiny reads, the 4..16
// word builds, the single tail mix, the double tail mix and the wide block
// loop with and without leftovers.
var rapidhashLengths = []int{0, 1, 2, 3, 4, 7, 8, 12, 16, 17, 31, 32, 33, 48, 49, 95, 96, 97, 300}

func rapidhashInput(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*131 + 17)
	}
	return b
}

func TestRapidhash64Deterministic(t *testing.T) {
	for _, n := range rapidhashLengths {
		in := rapidhashInput(n)
		h1 := Rapidhash64(in)
		h2 := Rapidhash64(append([]byte(nil), in...))
		if h1 != h2 {
			t.Errorf("len %d: same content hashed to %#x and %#x", n, h1, h2)
		}
	}
}

func TestRapidhash64SpreadsInputs(t *testing.T) {
	seen := make(map[uint64]int)
	for _, n := range rapidhashLengths {
		h := Rapidhash64(rapidhashInput(n))
		if prev, dup := seen[h]; dup {
			t.Errorf("lengths %d and %d collided on %#x", prev, n, h)
		}
		seen[h] = n
	}
}

func TestRapidhash64SeedMatters(t *testing.T) {
	in := []byte("the same bytes under two seeds")
	if Rapidhash64Seed(in, 1) == Rapidhash64Seed(in, 2) {
		t.Errorf("two seeds produced the same fingerprint")
	}
	if Rapidhash64(in) != Rapidhash64Seed(in, RAPID_SEED) {
		t.Errorf("default-seed form disagrees with explicit seed form")
	}
}

func TestRapidhash64LastBytesCount(t *testing.T) {
	// The tail words are read from the end of the key; flipping the final
	// byte must change the fingerprint at every block-path length.
	for _, n := range []int{17, 49, 96, 300} {
		in := rapidhashInput(n)
		flipped := append([]byte(nil), in...)
		flipped[n-1] ^= 0xFF
		if bytes.Equal(in, flipped) {
			t.Fatalf("flip did not change input")
		}
		if Rapidhash64(in) == Rapidhash64(flipped) {
			t.Errorf("len %d: tail byte flip kept the same fingerprint", n)
		}
	}
}
