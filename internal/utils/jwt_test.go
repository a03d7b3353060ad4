package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, true, time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		parsedID, isAdmin, err := ParseToken(secret, token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsedID != userID {
			t.Fatalf("expected user id %s, got %s", userID, parsedID)
		}
		if !isAdmin {
			t.Fatalf("expected admin claim preserved")
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, false, time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, _, err := ParseToken("other-secret", token); err == nil {
			t.Fatalf("expected parse to fail with wrong secret")
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := GenerateToken(secret, userID, false, -time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, _, err := ParseToken(secret, token); err == nil {
			t.Fatalf("expected parse to fail for expired token")
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, _, err := ParseToken(secret, "not-a-token"); err == nil {
			t.Fatalf("expected parse to fail")
		}
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2boogaloo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CheckPassword(hash, "hunter2boogaloo") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}
