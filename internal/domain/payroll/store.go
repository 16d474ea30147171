package payroll

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

const payrollColumns = `
	id, company_id, employee_id, employee_name, department, attendance_days, approved_leaves,
	gross_salary, pf_percent, tax_percent,
	deductions, net_pay, status, processed_by, processed_at, created_at, updated_at
`

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.EmployeeName, &p.Department, &p.AttendanceDays, &p.ApprovedLeaves,
		&p.GrossSalary, &p.PFPercent, &p.TaxPercent,
		&p.Deductions, &p.NetPay, &p.Status, &p.ProcessedBy, &p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Upsert keeps one payroll row per employee. Reprocessing replaces the
// previous run in place, including the employee snapshot.
func (s *Store) Upsert(ctx context.Context, companyID, employeeID string, snap Snapshot, b Breakdown, status, processedBy string, processedAt time.Time) (Payroll, error) {
	return scanPayroll(s.DB.QueryRow(ctx, `
		INSERT INTO payrolls (company_id, employee_id, employee_name, department,
			attendance_days, approved_leaves, gross_salary, pf_percent, tax_percent,
			deductions, net_pay, status, processed_by, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (company_id, employee_id) DO UPDATE SET
			employee_name = EXCLUDED.employee_name,
			department = EXCLUDED.department,
			attendance_days = EXCLUDED.attendance_days,
			approved_leaves = EXCLUDED.approved_leaves,
			gross_salary = EXCLUDED.gross_salary,
			pf_percent = EXCLUDED.pf_percent,
			tax_percent = EXCLUDED.tax_percent,
			deductions = EXCLUDED.deductions,
			net_pay = EXCLUDED.net_pay,
			status = EXCLUDED.status,
			processed_by = EXCLUDED.processed_by,
			processed_at = EXCLUDED.processed_at,
			updated_at = NOW()
		RETURNING `+payrollColumns+`
	`, companyID, employeeID, snap.EmployeeName, snap.Department,
		snap.AttendanceDays, snap.ApprovedLeaves, b.Gross, b.PFPercent, b.TaxPercent,
		b.Deductions, b.NetPay, status, processedBy, processedAt))
}

func (s *Store) List(ctx context.Context, companyID string) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+payrollColumns+`
		FROM payrolls
		WHERE company_id = $1
		ORDER BY updated_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payrolls := make([]Payroll, 0)
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, rows.Err()
}

func (s *Store) GetByEmployee(ctx context.Context, companyID, employeeID string) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, `
		SELECT `+payrollColumns+`
		FROM payrolls
		WHERE company_id = $1 AND employee_id = $2
	`, companyID, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	return p, err
}

const settingsColumns = `
	id, company_id, pf_percent, tax_percent, basic_percent, hra_percent, bonus_percent,
	other_deductions, pay_cycle, pay_day, effective_from, created_by, created_at
`

func scanSettings(row pgx.Row) (Settings, error) {
	var st Settings
	err := row.Scan(
		&st.ID, &st.CompanyID, &st.PFPercent, &st.TaxPercent, &st.BasicPercent,
		&st.HRAPercent, &st.BonusPercent, &st.OtherDeductions,
		&st.PayCycle, &st.PayDay, &st.EffectiveFrom, &st.CreatedBy, &st.CreatedAt,
	)
	return st, err
}

// ActiveSettings resolves the settings version in force right now,
// falling back to the built-in defaults when a company has never
// saved any.
func (s *Store) ActiveSettings(ctx context.Context, companyID string) (Settings, error) {
	st, err := scanSettings(s.DB.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM payroll_settings
		WHERE company_id = $1 AND effective_from <= NOW()
		ORDER BY effective_from DESC, created_at DESC
		LIMIT 1
	`, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(companyID), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return st, nil
}

// InsertSettings appends a new settings version. Existing versions are
// never updated.
func (s *Store) InsertSettings(ctx context.Context, st Settings) (Settings, error) {
	return scanSettings(s.DB.QueryRow(ctx, `
		INSERT INTO payroll_settings (company_id, pf_percent, tax_percent, basic_percent,
			hra_percent, bonus_percent, other_deductions, pay_cycle, pay_day, effective_from, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+settingsColumns+`
	`, st.CompanyID, st.PFPercent, st.TaxPercent, st.BasicPercent,
		st.HRAPercent, st.BonusPercent, st.OtherDeductions,
		st.PayCycle, st.PayDay, st.EffectiveFrom, st.CreatedBy))
}

func (s *Store) SettingsHistory(ctx context.Context, companyID string) ([]Settings, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT `+settingsColumns+`
		FROM payroll_settings
		WHERE company_id = $1
		ORDER BY effective_from DESC, created_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]Settings, 0)
	for rows.Next() {
		st, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, st)
	}
	return history, rows.Err()
}

type SummaryTotals struct {
	EmployeeCount   int     `json:"employeeCount"`
	ProcessedCount  int     `json:"processedCount"`
	PendingCount    int     `json:"pendingCount"`
	TotalGross      float64 `json:"totalGross"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNetPay     float64 `json:"totalNetPay"`
}

func (s *Store) Summary(ctx context.Context, companyID string) (SummaryTotals, error) {
	var t SummaryTotals
	err := s.DB.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE company_id = $1 AND status = 'active'),
			COUNT(*) FILTER (WHERE p.status = 'processed'),
			COUNT(*) FILTER (WHERE p.status = 'pending'),
			COALESCE(SUM(p.gross_salary), 0),
			COALESCE(SUM(p.deductions), 0),
			COALESCE(SUM(p.net_pay), 0)
		FROM payrolls p
		WHERE p.company_id = $1
	`, companyID).Scan(
		&t.EmployeeCount, &t.ProcessedCount, &t.PendingCount,
		&t.TotalGross, &t.TotalDeductions, &t.TotalNetPay,
	)
	return t, err
}
