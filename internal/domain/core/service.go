package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/company"
	"hrms/internal/platform/db"
)

var (
	ErrDuplicateEmail = errors.New("employee email already registered in this company")
	ErrInvalidRole    = errors.New("role must be hr, payroll or employee")
	ErrIdentExhausted = errors.New("could not allocate a unique identifier")
)

// maxIdentAttempts bounds the retry loop that absorbs concurrent
// inserts colliding on the same identifier serial.
const maxIdentAttempts = 5

type Service struct {
	DB                 db.Querier
	Employees          *Store
	Companies          *company.Store
	TempPasswordLength int
	Now                func() time.Time
}

func NewService(q db.Querier, employees *Store, companies *company.Store, tempPasswordLength int) *Service {
	return &Service{
		DB:                 q,
		Employees:          employees,
		Companies:          companies,
		TempPasswordLength: tempPasswordLength,
		Now:                time.Now,
	}
}

// CreateEmployee inserts the employee row and its login account in a
// single transaction, so a failed account never leaves an orphaned
// employee behind. Identifier serials are recounted per attempt and
// unique indexes arbitrate races between concurrent creates.
func (s *Service) CreateEmployee(ctx context.Context, companyID string, in CreateEmployeeInput) (CreatedEmployee, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = auth.RoleEmployee
	}
	if !auth.ValidRole(role) {
		return CreatedEmployee{}, ErrInvalidRole
	}

	joined := s.Now()
	if in.JoinedAt != "" {
		parsed, err := time.Parse("2006-01-02", in.JoinedAt)
		if err != nil {
			return CreatedEmployee{}, fmt.Errorf("joinedAt: %w", err)
		}
		joined = parsed
	}

	code, err := s.Companies.CodeByID(ctx, companyID)
	if err != nil {
		return CreatedEmployee{}, err
	}

	year := joined.Year()
	loginPrefix, err := LoginIDPrefix(code, in.FirstName, in.LastName, year)
	if err != nil {
		return CreatedEmployee{}, err
	}
	numberPrefix, err := EmployeeNumberPrefix(in.FirstName, in.LastName, year)
	if err != nil {
		return CreatedEmployee{}, err
	}

	plain, hash, err := auth.IssueCredentials(s.TempPasswordLength)
	if err != nil {
		return CreatedEmployee{}, err
	}

	for attempt := 0; attempt < maxIdentAttempts; attempt++ {
		emp, loginID, err := s.createOnce(ctx, companyID, in, role, joined, loginPrefix, numberPrefix, hash, attempt)
		if err == nil {
			return CreatedEmployee{Employee: emp, LoginID: loginID, TempPassword: plain}, nil
		}
		if isIdentCollision(err) {
			continue
		}
		return CreatedEmployee{}, err
	}
	return CreatedEmployee{}, ErrIdentExhausted
}

func (s *Service) createOnce(ctx context.Context, companyID string, in CreateEmployeeInput, role string, joined time.Time, loginPrefix, numberPrefix, passwordHash string, attempt int) (Employee, string, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, "", err
	}
	defer tx.Rollback(ctx)

	numberSerial, err := countEmployeeNumberPrefix(ctx, tx, companyID, numberPrefix)
	if err != nil {
		return Employee{}, "", err
	}
	loginSerial, err := countLoginIDPrefix(ctx, tx, companyID, loginPrefix)
	if err != nil {
		return Employee{}, "", err
	}

	employeeNumber := FormatSerial(numberPrefix, numberSerial+1+attempt)
	loginID := FormatSerial(loginPrefix, loginSerial+1+attempt)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var e Employee
	err = tx.QueryRow(ctx, `
		INSERT INTO employees (company_id, employee_number, first_name, last_name,
			email, department, designation, gross_salary, joined_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, companyID, employeeNumber, in.FirstName, in.LastName, email,
		in.Department, in.Designation, in.GrossSalary, joined, EmployeeStatusActive,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Employee{}, "", mapCreateError(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (company_id, employee_id, login_id, email, password_hash, role, status, must_change_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
	`, companyID, e.ID, loginID, email, passwordHash, role, auth.UserStatusActive)
	if err != nil {
		return Employee{}, "", mapCreateError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, "", err
	}

	e.CompanyID = companyID
	e.EmployeeNumber = employeeNumber
	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.Email = email
	e.Department = in.Department
	e.Designation = in.Designation
	e.GrossSalary = in.GrossSalary
	e.JoinedAt = joined
	e.Status = EmployeeStatusActive
	return e, loginID, nil
}

func isIdentCollision(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "employee_number") ||
		strings.Contains(pgErr.ConstraintName, "login_id")
}

func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email") {
		return ErrDuplicateEmail
	}
	return err
}

type UpdateEmployeeInput struct {
	Department  *string  `json:"department"`
	Designation *string  `json:"designation"`
	GrossSalary *float64 `json:"grossSalary"`
	Status      *string  `json:"status"`
}

func (s *Service) UpdateEmployee(ctx context.Context, companyID, id string, in UpdateEmployeeInput) (Employee, error) {
	if in.Status != nil && *in.Status != EmployeeStatusActive && *in.Status != EmployeeStatusInactive {
		return Employee{}, fmt.Errorf("status must be %s or %s", EmployeeStatusActive, EmployeeStatusInactive)
	}
	tag, err := s.DB.Exec(ctx, `
		UPDATE employees SET
			department = COALESCE($3, department),
			designation = COALESCE($4, designation),
			gross_salary = COALESCE($5, gross_salary),
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE company_id = $1 AND id = $2
	`, companyID, id, in.Department, in.Designation, in.GrossSalary, in.Status)
	if err != nil {
		return Employee{}, err
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrEmployeeNotFound
	}
	if in.Status != nil && *in.Status == EmployeeStatusInactive {
		// Disable the login alongside the employee record.
		if _, err := s.DB.Exec(ctx, `
			UPDATE users SET status = $3, updated_at = NOW()
			WHERE company_id = $1 AND employee_id = $2
		`, companyID, id, auth.UserStatusDisabled); err != nil {
			return Employee{}, err
		}
	}
	return s.Employees.Get(ctx, companyID, id)
}
