package notifications

import (
	"context"
	"time"

	"hrms/internal/platform/db"
)

const (
	TypeLeaveSubmitted   = "leave_submitted"
	TypeLeaveApproved    = "leave_approved"
	TypeLeaveRejected    = "leave_rejected"
	TypePayrollProcessed = "payroll_processed"
	TypeAccountCreated   = "account_created"
)

type Notification struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	EmployeeID string    `json:"employeeId"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Service struct {
	DB db.Querier
}

func New(q db.Querier) *Service {
	return &Service{DB: q}
}

// Notify satisfies the notifier interfaces of the domain services.
func (s *Service) Notify(ctx context.Context, companyID, employeeID, kind, message string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO notifications (company_id, employee_id, type, message)
		VALUES ($1, $2, $3, $4)
	`, companyID, employeeID, kind, message)
	return err
}

func (s *Service) ListForEmployee(ctx context.Context, companyID, employeeID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, company_id, employee_id, type, message, read, created_at
		FROM notifications
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, companyID, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.EmployeeID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, companyID, employeeID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE company_id = $1 AND employee_id = $2 AND id = $3
	`, companyID, employeeID, notificationID)
	return err
}

func (s *Service) UnreadCount(ctx context.Context, companyID, employeeID string) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE company_id = $1 AND employee_id = $2 AND read = FALSE
	`, companyID, employeeID).Scan(&n)
	return n, err
}
