package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("gau-seva-2024")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "gau-seva-2024" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword(hash, "gau-seva-2024") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	if CheckPassword("", "anything") {
		t.Error("empty hash accepted")
	}
}
