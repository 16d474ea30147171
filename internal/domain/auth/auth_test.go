package auth

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{UserID: "u1", CompanyID: "c1", Role: RoleHR, SessionID: "s1"}
	token, err := GenerateToken("secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.UserID != "u1" || parsed.CompanyID != "c1" || parsed.Role != RoleHR || parsed.SessionID != "s1" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestHashTokenStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("expected stable hash")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("expected distinct hashes")
	}
}

func TestGenerateTempPasswordLength(t *testing.T) {
	pass, err := GenerateTempPassword(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pass) != 10 {
		t.Fatalf("expected 10 characters, got %d", len(pass))
	}
	if strings.ToLower(pass) != pass {
		t.Fatal("expected lowercase hex output")
	}

	odd, err := GenerateTempPassword(9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(odd) != 9 {
		t.Fatalf("expected 9 characters, got %d", len(odd))
	}
}

func TestGenerateTempPasswordDefault(t *testing.T) {
	pass, err := GenerateTempPassword(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pass) != DefaultTempPasswordLength {
		t.Fatalf("expected default length, got %d", len(pass))
	}
}

func TestIssueCredentials(t *testing.T) {
	plain, hash, err := IssueCredentials(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword(hash, plain); err != nil {
		t.Fatalf("expected issued credentials to verify: %v", err)
	}
}
