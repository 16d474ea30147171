package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"

	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
)

// Notifier lets the service announce processed payrolls without
// depending on the notifications package directly.
type Notifier interface {
	Notify(ctx context.Context, companyID, employeeID, kind, message string) error
}

type Service struct {
	store      *Store
	crypto     *cryptoutil.Service
	notifier   Notifier
	payslipDir string
}

func NewService(store *Store, crypto *cryptoutil.Service, notifier Notifier, payslipDir string) *Service {
	if payslipDir == "" {
		payslipDir = "storage/payslips"
	}
	return &Service{store: store, crypto: crypto, notifier: notifier, payslipDir: payslipDir}
}

func (s *Service) DB() db.Querier {
	return s.store.DB
}

func (s *Service) Store() *Store {
	return s.store
}

// Process recomputes the employee's payroll under the settings version
// active right now and marks it processed. The employee's gross salary
// is read fresh inside this call, never cached from an earlier run.
func (s *Service) Process(ctx context.Context, companyID, employeeID, processedBy string) (Payroll, error) {
	var gross float64
	var status string
	var snap Snapshot
	err := s.store.DB.QueryRow(ctx, `
		SELECT e.gross_salary, e.status,
			e.first_name || ' ' || e.last_name,
			e.department,
			(SELECT COUNT(*) FROM attendance a
				WHERE a.employee_id = e.id AND a.status IN ('present', 'late')),
			(SELECT COUNT(*) FROM leave_requests lr
				WHERE lr.employee_id = e.id AND lr.status = 'approved')
		FROM employees e
		WHERE e.company_id = $1 AND e.id = $2
	`, companyID, employeeID).Scan(&gross, &status,
		&snap.EmployeeName, &snap.Department, &snap.AttendanceDays, &snap.ApprovedLeaves)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	if status != "active" {
		return Payroll{}, ErrEmployeeInactive
	}

	settings, err := s.store.ActiveSettings(ctx, companyID)
	if err != nil {
		return Payroll{}, err
	}

	breakdown := Compute(gross, settings.PFPercent, settings.TaxPercent)
	p, err := s.store.Upsert(ctx, companyID, employeeID, snap, breakdown, StatusProcessed, processedBy, time.Now())
	if err != nil {
		return Payroll{}, err
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("Your payroll has been processed. Net pay: %.2f", p.NetPay)
		if err := s.notifier.Notify(ctx, companyID, employeeID, "payroll_processed", msg); err != nil {
			return p, fmt.Errorf("payroll processed but notification failed: %w", err)
		}
	}
	return p, nil
}

// Payslip returns the latest processed figures for an employee, or
// ErrNoProcessedPayroll when nothing has been run yet.
func (s *Service) Payslip(ctx context.Context, companyID, employeeID string) (Payroll, error) {
	p, err := s.store.GetByEmployee(ctx, companyID, employeeID)
	if errors.Is(err, ErrNotFound) {
		return Payroll{}, ErrNoProcessedPayroll
	}
	if err != nil {
		return Payroll{}, err
	}
	if p.Status != StatusProcessed {
		return Payroll{}, ErrNoProcessedPayroll
	}
	return p, nil
}

// GeneratePayslipPDF renders the payslip to disk and returns its path.
// With an encryption key configured the file is stored encrypted and
// the plaintext removed.
func (s *Service) GeneratePayslipPDF(ctx context.Context, companyID, employeeID string) (string, error) {
	p, err := s.Payslip(ctx, companyID, employeeID)
	if err != nil {
		return "", err
	}

	var firstName, lastName, employeeNumber, companyName string
	err = s.store.DB.QueryRow(ctx, `
		SELECT e.first_name, e.last_name, e.employee_number, c.name
		FROM employees e
		JOIN companies c ON c.id = e.company_id
		WHERE e.company_id = $1 AND e.id = $2
	`, companyID, employeeID).Scan(&firstName, &lastName, &employeeNumber, &companyName)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.payslipDir, p.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, companyName)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(40, 8, "Payslip")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", firstName, lastName, employeeNumber))
	pdf.Ln(7)
	if p.ProcessedAt != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Processed: %s", p.ProcessedAt.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Gross salary: %.2f", p.GrossSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Provident fund (%.2f%%): %.2f", p.PFPercent, p.GrossSalary*p.PFPercent/100))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Tax (%.2f%%): %.2f", p.TaxPercent, p.GrossSalary*p.TaxPercent/100))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total deductions: %.2f", p.Deductions))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", p.NetPay))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if s.crypto != nil && s.crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := s.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}
	return filePath, nil
}

// ReadPayslipPDF loads a generated payslip, transparently decrypting
// files written with the at-rest key.
func (s *Service) ReadPayslipPDF(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".enc" {
		if s.crypto == nil || !s.crypto.Configured() {
			return nil, errors.New("payslip is encrypted but no key is configured")
		}
		return s.crypto.Decrypt(data)
	}
	return data, nil
}
