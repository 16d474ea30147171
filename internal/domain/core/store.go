package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/db"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// employeeColumns folds the latest payroll figures and attendance
// counters into every employee row so callers never stitch them
// together from separate writes.
const employeeColumns = `
	e.id, e.company_id, e.employee_number, e.first_name, e.last_name,
	e.email, e.department, e.designation, e.gross_salary, e.joined_at,
	e.status, e.created_at,
	COALESCE(p.deductions, 0) AS deductions,
	COALESCE(p.net_pay, 0) AS net_pay,
	(SELECT COUNT(*) FROM attendance a
		WHERE a.employee_id = e.id AND a.status IN ('present', 'late')) AS attendance_days,
	(SELECT COUNT(*) FROM leave_requests l
		WHERE l.employee_id = e.id AND l.status = 'approved') AS approved_leaves
`

const employeeFrom = `
	FROM employees e
	LEFT JOIN payrolls p ON p.company_id = e.company_id AND p.employee_id = e.id
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeNumber, &e.FirstName, &e.LastName,
		&e.Email, &e.Department, &e.Designation, &e.GrossSalary, &e.JoinedAt,
		&e.Status, &e.CreatedAt,
		&e.Deductions, &e.NetPay, &e.AttendanceDays, &e.ApprovedLeaves,
	)
	return e, err
}

func (s *Store) List(ctx context.Context, companyID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+employeeColumns+employeeFrom+`
		WHERE e.company_id = $1
		ORDER BY e.created_at DESC, e.employee_number
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) Get(ctx context.Context, companyID, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
		SELECT `+employeeColumns+employeeFrom+`
		WHERE e.company_id = $1 AND e.id = $2
	`, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) GetByNumber(ctx context.Context, companyID, employeeNumber string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
		SELECT `+employeeColumns+employeeFrom+`
		WHERE e.company_id = $1 AND e.employee_number = $2
	`, companyID, employeeNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

// countEmployeeNumberPrefix and countLoginIDPrefix run inside the
// creation transaction so the serial reflects concurrent inserts up
// to the snapshot. The unique indexes are the real guard; the retry
// in the service absorbs the race.
func countEmployeeNumberPrefix(ctx context.Context, tx pgx.Tx, companyID, prefix string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM employees
		WHERE company_id = $1 AND employee_number LIKE $2
	`, companyID, likePattern(prefix)).Scan(&n)
	return n, err
}

func countLoginIDPrefix(ctx context.Context, tx pgx.Tx, companyID, prefix string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE company_id = $1 AND login_id LIKE $2
	`, companyID, likePattern(prefix)).Scan(&n)
	return n, err
}

func likePattern(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}
