package core

import (
	"errors"
	"testing"
)

func TestInitials(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"John", "JO"},
		{"al", "AL"},
		{"X", "XX"},
		{"o'brien", "OB"},
		{"  mary ", "MA"},
	}
	for _, tc := range cases {
		got, err := Initials(tc.in)
		if err != nil {
			t.Fatalf("Initials(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Initials(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInitialsRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "123"} {
		if _, err := Initials(in); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Initials(%q): expected ErrInvalidName, got %v", in, err)
		}
	}
}

func TestLoginIDPrefix(t *testing.T) {
	prefix, err := LoginIDPrefix("acme", "John", "Doe", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "ACMEJODO2026" {
		t.Fatalf("prefix = %q", prefix)
	}
	if got := FormatSerial(prefix, 1); got != "ACMEJODO20260001" {
		t.Fatalf("login id = %q", got)
	}
}

func TestEmployeeNumberPrefix(t *testing.T) {
	prefix, err := EmployeeNumberPrefix("John", "Doe", 2026)
	if err != nil {
		t.Fatal(err)
	}
	if FormatSerial(prefix, 17) != "JODO20260017" {
		t.Fatalf("employee number = %q", FormatSerial(prefix, 17))
	}
}

func TestFormatSerialWidth(t *testing.T) {
	if got := FormatSerial("P", 10000); got != "P10000" {
		t.Fatalf("serial overflow should widen, got %q", got)
	}
}
