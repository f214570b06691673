package auth

import "testing"

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	tests := []string{"secret123", "p@ssw0rd with spaces", "日本語パスワード"}
	for _, password := range tests {
		hash, err := h.Hash(password)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", password, err)
		}
		if hash == password {
			t.Fatalf("Hash(%q) returned plaintext", password)
		}
		if !h.Verify(password, hash) {
			t.Errorf("Verify(%q, hash) = false, want true", password)
		}
		if h.Verify(password+"x", hash) {
			t.Errorf("Verify with wrong password = true, want false")
		}
	}
}

func TestHasherDistinctSalts(t *testing.T) {
	h := NewHasher(4)

	first, err := h.Hash("secret123")
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.Hash("secret123")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}

func TestHasherMalformedHash(t *testing.T) {
	h := NewHasher(4)

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$truncated"} {
		if h.Verify("anything", hash) {
			t.Errorf("Verify against malformed hash %q = true, want false", hash)
		}
	}
}

func TestHasherAlteredHash(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatal(err)
	}

	altered := []byte(hash)
	last := len(altered) - 1
	if altered[last] == 'a' {
		altered[last] = 'b'
	} else {
		altered[last] = 'a'
	}
	if h.Verify("secret123", string(altered)) {
		t.Error("Verify against altered hash = true, want false")
	}
}
