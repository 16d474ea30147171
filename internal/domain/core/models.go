package core

import "time"

type Employee struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"companyId"`
	EmployeeNumber string    `json:"employeeNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	Designation    string    `json:"designation"`
	GrossSalary    float64   `json:"grossSalary"`
	JoinedAt       time.Time `json:"joinedAt"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`

	// Derived from the latest payroll run and attendance records,
	// never stored on the employee row.
	Deductions     float64 `json:"deductions"`
	NetPay         float64 `json:"netPay"`
	AttendanceDays int     `json:"attendanceDays"`
	ApprovedLeaves int     `json:"approvedLeaves"`
}

type CreateEmployeeInput struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Department  string  `json:"department"`
	Designation string  `json:"designation"`
	GrossSalary float64 `json:"grossSalary"`
	Role        string  `json:"role"`
	JoinedAt    string  `json:"joinedAt"`
}

type CreatedEmployee struct {
	Employee     Employee `json:"employee"`
	LoginID      string   `json:"loginId"`
	TempPassword string   `json:"tempPassword"`
}

const (
	EmployeeStatusActive   = "active"
	EmployeeStatusInactive = "inactive"
)
