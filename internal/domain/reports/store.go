package reports

import (
	"context"

	"hrms/internal/platform/db"
)

const trendWindow = 6

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// MonthlyTrend buckets processed payrolls by the month they were
// processed in, ascending, capped to the newest six buckets.
func (s *Store) MonthlyTrend(ctx context.Context, companyID string) ([]TrendBucket, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT
			EXTRACT(YEAR FROM processed_at)::int,
			EXTRACT(MONTH FROM processed_at)::int,
			COUNT(*),
			COALESCE(SUM(net_pay), 0),
			COALESCE(SUM(deductions), 0)
		FROM payrolls
		WHERE company_id = $1 AND status = 'processed' AND processed_at IS NOT NULL
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]TrendBucket, 0)
	for rows.Next() {
		var b TrendBucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count, &b.Total, &b.Deductions); err != nil {
			return nil, err
		}
		b.Label = MonthLabel(b.Month)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return LastN(buckets, trendWindow), nil
}

// DepartmentDistribution ignores employees with no department set.
func (s *Store) DepartmentDistribution(ctx context.Context, companyID string) ([]DeptSlice, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT e.department, COUNT(*), COALESCE(SUM(p.net_pay), 0)
		FROM employees e
		LEFT JOIN payrolls p ON p.company_id = e.company_id AND p.employee_id = e.id AND p.status = 'processed'
		WHERE e.company_id = $1 AND e.department <> ''
		GROUP BY e.department
		ORDER BY COUNT(*) DESC, e.department
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slices := make([]DeptSlice, 0)
	for rows.Next() {
		var d DeptSlice
		if err := rows.Scan(&d.Department, &d.Count, &d.TotalNet); err != nil {
			return nil, err
		}
		slices = append(slices, d)
	}
	return slices, rows.Err()
}

func (s *Store) Build(ctx context.Context, companyID string) (Summary, error) {
	trend, err := s.MonthlyTrend(ctx, companyID)
	if err != nil {
		return Summary{}, err
	}
	departments, err := s.DepartmentDistribution(ctx, companyID)
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(trend, departments), nil
}
