package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "ops@creatorpulse", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Operator != "ops@creatorpulse" {
		t.Errorf("operator = %q, want ops@creatorpulse", claims.Operator)
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	token, err := GenerateToken("secret", "ops@creatorpulse", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ValidateToken("other", token); err == nil {
		t.Error("expected error for wrong signing key")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "ops@creatorpulse", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ValidateToken("secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}
