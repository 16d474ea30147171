package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `
	id, company_id, employee_id, work_date, status,
	check_in, check_out, note, marked_by, created_at, updated_at
`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeID, &r.WorkDate, &r.Status,
		&r.CheckIn, &r.CheckOut, &r.Note, &r.MarkedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Mark upserts the day's record. Marking the same employee and date
// twice overwrites the status instead of piling up rows. The employee
// row is resolved within the company, so an unknown or cross-tenant
// employee comes back as ErrEmployeeNotFound.
func (s *Store) Mark(ctx context.Context, companyID, employeeID string, workDate time.Time, status string, checkIn, checkOut *string, note, markedBy string) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, `
		INSERT INTO attendance (company_id, employee_id, work_date, status, check_in, check_out, note, marked_by)
		SELECT $1, e.id, $3, $4, $5, $6, $7, $8
		FROM employees e
		WHERE e.company_id = $1 AND e.id = $2
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			note = EXCLUDED.note,
			marked_by = EXCLUDED.marked_by,
			updated_at = NOW()
		RETURNING `+recordColumns+`
	`, companyID, employeeID, workDate, status, checkIn, checkOut, note, markedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrEmployeeNotFound
	}
	return r, err
}

func (s *Store) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY work_date DESC
	`, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListByDate(ctx context.Context, companyID string, workDate time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance
		WHERE company_id = $1 AND work_date = $2
		ORDER BY employee_id
	`, companyID, workDate)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Update(ctx context.Context, companyID, id, status string, checkIn, checkOut *string, note *string) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, `
		UPDATE attendance SET
			status = $3,
			check_in = COALESCE($4, check_in),
			check_out = COALESCE($5, check_out),
			note = COALESCE($6, note),
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2
		RETURNING `+recordColumns+`
	`, companyID, id, status, checkIn, checkOut, note))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func collect(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	records := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
