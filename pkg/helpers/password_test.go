package helpers

import (
	"strings"
	"testing"
)

func TestPasswordHashAndVerify(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(4)

	hash, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("not a bcrypt hash: %q", hash)
	}
	if !h.Verify("s3cret-password", hash) {
		t.Fatal("correct password rejected")
	}
	if h.Verify("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(4)

	h1, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
	if !h.Verify("same-input", h1) || !h.Verify("same-input", h2) {
		t.Fatal("salted hashes failed verification")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(4)
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash accepted")
	}
	if h.Verify("anything", "") {
		t.Fatal("empty hash accepted")
	}
}

func TestHasherClampsInvalidCost(t *testing.T) {
	t.Parallel()
	for _, cost := range []int{-1, 0, 3, 32} {
		h := NewPasswordHasher(cost)
		hash, err := h.Hash("pw")
		if err != nil {
			t.Fatalf("cost %d: %v", cost, err)
		}
		if !h.Verify("pw", hash) {
			t.Fatalf("cost %d: verification failed", cost)
		}
	}
}
