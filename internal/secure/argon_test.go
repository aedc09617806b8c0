package secure

import (
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewArgon2Hasher()

	digest, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Fatalf("unexpected digest format: %q", digest)
	}

	if !hasher.Compare("correct horse battery staple", digest) {
		t.Fatalf("expected matching password to verify")
	}
	if hasher.Compare("wrong password", digest) {
		t.Fatalf("expected mismatching password to fail")
	}
}

func TestHashSaltsAreFresh(t *testing.T) {
	hasher := NewArgon2Hasher()

	first, err := hasher.Hash("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("same input")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct digests for repeated input")
	}
	if !hasher.Compare("same input", first) || !hasher.Compare("same input", second) {
		t.Fatalf("expected both digests to verify")
	}
}

func TestCompareMalformedDigest(t *testing.T) {
	hasher := NewArgon2Hasher()

	malformed := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$salt",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=banana$c2FsdA$a2V5",
	}
	for _, digest := range malformed {
		if hasher.Compare("password", digest) {
			t.Errorf("expected malformed digest %q to fail", digest)
		}
	}
}
