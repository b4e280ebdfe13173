package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("sess-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("token already expired at issuance")
	}

	sessionID, err := tm.ParseSessionID(token)
	if err != nil {
		t.Fatalf("ParseSessionID failed: %v", err)
	}
	if sessionID != "sess-123" {
		t.Errorf("expected sess-123, got %s", sessionID)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken("sess-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := verifier.ParseSessionID(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.ParseSessionID("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
