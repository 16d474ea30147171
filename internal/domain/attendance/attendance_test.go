package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPresent, StatusLate, StatusAbsent, StatusOnLeave} {
		if !ValidStatus(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "PRESENT", "holiday", "onleave"} {
		if ValidStatus(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestMarkUpsertsOnEmployeeAndDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	workDate := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery(`ON CONFLICT \(employee_id, work_date\) DO UPDATE`).
		WithArgs("c1", "e1", workDate, StatusPresent, (*string)(nil), (*string)(nil), "", "u1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "employee_id", "work_date", "status",
			"check_in", "check_out", "note", "marked_by", "created_at", "updated_at",
		}).AddRow("a1", "c1", "e1", workDate, StatusPresent, nil, nil, "", ptr("u1"), now, now))

	s := NewStore(mock)
	r, err := s.Mark(context.Background(), "c1", "e1", workDate, StatusPresent, nil, nil, "", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "a1" || r.Status != StatusPresent {
		t.Fatalf("unexpected record: %+v", r)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMarkUnknownEmployee(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	workDate := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO attendance`).
		WithArgs("c1", "ghost", workDate, StatusPresent, (*string)(nil), (*string)(nil), "", "u1").
		WillReturnError(pgx.ErrNoRows)

	s := NewStore(mock)
	_, err = s.Mark(context.Background(), "c1", "ghost", workDate, StatusPresent, nil, nil, "", "u1")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery(`UPDATE attendance`).
		WithArgs("c1", "missing", StatusLate, (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)

	s := NewStore(mock)
	_, err = s.Update(context.Background(), "c1", "missing", StatusLate, nil, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func ptr(s string) *string { return &s }
