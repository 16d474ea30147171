package crypto

import (
	"bytes"
	"testing"
)

func TestRoundTripWithKey(t *testing.T) {
	svc, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected service to be configured")
	}

	plain := []byte("payslip content")
	encrypted, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if bytes.Equal(encrypted, plain) {
		t.Fatal("expected ciphertext to differ from plaintext")
	}

	decrypted, err := svc.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plain) {
		t.Fatalf("expected %q, got %q", plain, decrypted)
	}
}

func TestPassThroughWithoutKey(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}

	plain := []byte("data")
	out, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatal("expected passthrough without key")
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New("dG9vLXNob3J0"); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	svc, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Decrypt([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated ciphertext")
	}
}
