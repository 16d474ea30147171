package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func TestActiveSettingsFallsBackToDefaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM payroll_settings").
		WithArgs("c1").
		WillReturnError(pgx.ErrNoRows)

	s := NewStore(mock)
	st, err := s.ActiveSettings(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if st.PFPercent != DefaultPFPercent || st.TaxPercent != DefaultTaxPercent || st.PayCycle != CycleMonthly {
		t.Fatalf("defaults not applied: %+v", st)
	}
}

func TestGetByEmployeeNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("c1", "e1").
		WillReturnError(pgx.ErrNoRows)

	s := NewStore(mock)
	_, err = s.GetByEmployee(context.Background(), "c1", "e1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
