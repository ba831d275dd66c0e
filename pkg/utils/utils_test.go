package utils

import (
	"testing"
	"time"
)

func TestEncryptRoundTrip(t *testing.T) {
	key := DeriveKey("secret")
	sealed, err := Encrypt([]byte("li-access-token"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if sealed == "li-access-token" {
		t.Fatalf("token stored in clear")
	}

	plain, err := Decrypt(sealed, key)
	if err != nil || plain != "li-access-token" {
		t.Fatalf("Decrypt = %q, %v", plain, err)
	}

	if _, err := Decrypt(sealed, DeriveKey("other")); err == nil {
		t.Fatalf("expected failure with wrong key")
	}
	if _, err := Decrypt("AAAA", key); err == nil {
		t.Fatalf("expected failure for short ciphertext")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	id, err := UserIDFromToken("secret", token)
	if err != nil || id != 42 {
		t.Fatalf("UserIDFromToken = %d, %v", id, err)
	}

	if _, err := UserIDFromToken("wrong", token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("secret", 1, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateToken("secret", token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
