package database

import "testing"

func TestDigest(t *testing.T) {
	a := Digest([]byte("ab"), []byte("c"))
	b := Digest([]byte("a"), []byte("bc"))
	if a == b {
		t.Errorf("expected part boundaries to change the digest")
	}
	if a != Digest([]byte("ab"), []byte("c")) {
		t.Errorf("expected digest to be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
