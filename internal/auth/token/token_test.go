package token

import "testing"

func TestGenerateRandomTokenUnique(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken: %v", err)
	}
	b, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("GenerateRandomToken: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens should differ")
	}
}

func TestHashSHA256Deterministic(t *testing.T) {
	if HashSHA256("abc") != HashSHA256("abc") {
		t.Fatal("same input must hash to same value")
	}
	if HashSHA256("abc") == HashSHA256("abd") {
		t.Fatal("different inputs must hash differently")
	}
	if len(HashSHA256("abc")) != 64 {
		t.Fatal("expected hex-encoded sha256 length 64")
	}
}
