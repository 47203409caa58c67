package auth

import (
	"testing"
	"time"
)

func TestIssueAndValidateSessionToken(t *testing.T) {
	issuer, err := NewTokenIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Failed to create issuer: %v", err)
	}

	token, err := issuer.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.SessionID != "session-123" {
		t.Errorf("Expected session-123, got %s", claims.SessionID)
	}
	if claims.Role != sessionRole {
		t.Errorf("Expected role %s, got %s", sessionRole, claims.Role)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer([]byte("secret-a"), time.Hour)
	other, _ := NewTokenIssuer([]byte("secret-b"), time.Hour)

	token, err := issuer.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	issuer, _ := NewTokenIssuer([]byte("secret"), -time.Minute)

	token, err := issuer.IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	if _, err := issuer.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for expired token")
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(nil, time.Hour); err == nil {
		t.Error("Expected error for empty secret")
	}
}
