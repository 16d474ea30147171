package leave

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

const requestColumns = `
	id, company_id, employee_id, employee_name, type, start_date, end_date, days,
	reason, status, decided_by, decision_note, decided_at, created_at
`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	var note *string
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeID, &r.EmployeeName, &r.Type, &r.StartDate, &r.EndDate, &r.Days,
		&r.Reason, &r.Status, &r.DecidedBy, &note, &r.DecidedAt, &r.CreatedAt,
	)
	if note != nil {
		r.DecisionNote = *note
	}
	return r, err
}

func (s *Store) Create(ctx context.Context, companyID, employeeID, leaveType string, start, end time.Time, days int, reason string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
		INSERT INTO leave_requests (company_id, employee_id, employee_name, type, start_date, end_date, days, reason, status)
		SELECT $1, e.id, e.first_name || ' ' || e.last_name, $3, $4, $5, $6, $7, $8
		FROM employees e
		WHERE e.company_id = $1 AND e.id = $2
		RETURNING `+requestColumns+`
	`, companyID, employeeID, leaveType, start, end, days, reason, StatusPending))
}

func (s *Store) Get(ctx context.Context, companyID, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE company_id = $1 AND id = $2
	`, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

func (s *Store) List(ctx context.Context, companyID, status string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`, companyID, status)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY created_at DESC
	`, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Decide flips a pending request in one statement. The status guard in
// the WHERE clause is what makes terminal states stick under
// concurrent approvals.
func (s *Store) Decide(ctx context.Context, companyID, id, toStatus, decidedBy, note string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
		UPDATE leave_requests SET
			status = $3,
			decided_by = $4,
			decision_note = $5,
			decided_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = $6
		RETURNING `+requestColumns+`
	`, companyID, id, toStatus, decidedBy, note, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already decided. Look again to report which.
		if _, getErr := s.Get(ctx, companyID, id); getErr != nil {
			return Request{}, getErr
		}
		return Request{}, ErrInvalidTransition
	}
	return r, err
}

func collect(rows pgx.Rows) ([]Request, error) {
	defer rows.Close()
	requests := make([]Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
