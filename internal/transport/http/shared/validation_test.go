package shared

import (
	"testing"
	"time"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("lastName", "", "is required")
	v.Required("firstName", "", "is required")
	v.Required("email", "hr@acme.test", "is required")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("issues = %v", issues)
	}
	if issues[0].Field != "firstName" || issues[1].Field != "lastName" {
		t.Fatalf("not sorted: %v", issues)
	}
}

func TestValidatorEnum(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "Present", []string{"present", "late"}, "unknown status")
	if v.HasIssues() {
		t.Fatal("case-insensitive match should pass")
	}
	v.Enum("status", "holiday", []string{"present", "late"}, "unknown status")
	if !v.HasIssues() {
		t.Fatal("unexpected value should fail")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
	v.DateOrder("startDate", start, "endDate", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("issues = %v", v.Issues())
	}
}

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2026-08-29"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseDate("2026-08-29T10:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseDate("29/08/2026"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
