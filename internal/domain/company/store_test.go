package company

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func TestCreateNormalizesCodeAndEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme Corp", "ACME", "hr@acme.test", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "email", "created_at"}).
			AddRow("c1", "Acme Corp", "ACME", "hr@acme.test", now))

	s := NewStore(mock)
	c, err := s.Create(context.Background(), "Acme Corp", "acme", "HR@Acme.Test", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Code != "ACME" || c.Email != "hr@acme.test" {
		t.Fatalf("unexpected company %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateMapsDuplicateCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO companies").
		WithArgs("Acme Corp", "ACME", "hr@acme.test", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "companies_code_key"})

	s := NewStore(mock)
	_, err = s.Create(context.Background(), "Acme Corp", "ACME", "hr@acme.test", "hash")
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestFindByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, code, email, password_hash").
		WithArgs("none@acme.test").
		WillReturnError(pgx.ErrNoRows)

	s := NewStore(mock)
	_, _, err = s.FindByEmail(context.Background(), "none@acme.test")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
