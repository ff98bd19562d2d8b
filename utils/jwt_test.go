package utils

import (
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "Asha", "producer", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Name != "Asha" {
		t.Errorf("Name = %q, want Asha", claims.Name)
	}
	if claims.Role != "producer" {
		t.Errorf("Role = %q, want producer", claims.Role)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(1, "x", "consumer", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-jwt"); err == nil {
		t.Error("malformed token accepted")
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, err := GenerateToken(1, "x", "consumer", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
