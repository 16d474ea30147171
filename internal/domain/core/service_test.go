package core

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsIdentCollision(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&pgconn.PgError{Code: "23505", ConstraintName: "employees_company_id_employee_number_key"}, true},
		{&pgconn.PgError{Code: "23505", ConstraintName: "users_login_id_key"}, true},
		{&pgconn.PgError{Code: "23505", ConstraintName: "users_company_id_email_key"}, false},
		{&pgconn.PgError{Code: "23503", ConstraintName: "users_login_id_key"}, false},
		{errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		if got := isIdentCollision(tc.err); got != tc.want {
			t.Fatalf("isIdentCollision(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestMapCreateErrorDuplicateEmail(t *testing.T) {
	err := mapCreateError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_company_id_email_key"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	plain := errors.New("bad things")
	if got := mapCreateError(plain); got != plain {
		t.Fatalf("unrelated error should pass through, got %v", got)
	}
}
