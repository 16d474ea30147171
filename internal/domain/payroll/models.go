package payroll

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("payroll record not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrNoProcessedPayroll = errors.New("no processed payroll for employee")
	ErrInvalidSettings    = errors.New("percentages must be between 0 and 100 and sum below 100")
)

type Payroll struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"companyId"`
	EmployeeID     string     `json:"employeeId"`
	EmployeeName   string     `json:"employeeName"`
	Department     string     `json:"department"`
	AttendanceDays int        `json:"attendanceDays"`
	ApprovedLeaves int        `json:"approvedLeaves"`
	GrossSalary    float64    `json:"grossSalary"`
	PFPercent      float64    `json:"pfPercent"`
	TaxPercent     float64    `json:"taxPercent"`
	Deductions     float64    `json:"deductions"`
	NetPay         float64    `json:"netPay"`
	Status         string     `json:"status"`
	ProcessedBy    *string    `json:"processedBy,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Snapshot captures the employee figures denormalized onto the payroll
// row at processing time.
type Snapshot struct {
	EmployeeName   string
	Department     string
	AttendanceDays int
	ApprovedLeaves int
}

// Settings rows are append-only. The active version is the newest row
// whose effective_from is not in the future.
//
// Only the PF and tax percentages feed the computation. The structural
// fields (basic, HRA, bonus, other deductions, pay day) are stored for
// reporting and a future itemized breakdown.
type Settings struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	PFPercent       float64   `json:"pfPercent"`
	TaxPercent      float64   `json:"taxPercent"`
	BasicPercent    float64   `json:"basicPercent"`
	HRAPercent      float64   `json:"hraPercent"`
	BonusPercent    float64   `json:"bonusPercent"`
	OtherDeductions float64   `json:"otherDeductions"`
	PayCycle        string    `json:"payCycle"`
	PayDay          int       `json:"payDay"`
	EffectiveFrom   time.Time `json:"effectiveFrom"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:    companyID,
		PFPercent:    DefaultPFPercent,
		TaxPercent:   DefaultTaxPercent,
		BasicPercent: 50,
		HRAPercent:   30,
		PayCycle:     CycleMonthly,
		PayDay:       1,
	}
}

func ValidateRates(pf, tax float64) error {
	if pf < 0 || pf > 100 || tax < 0 || tax > 100 || pf+tax >= 100 {
		return ErrInvalidSettings
	}
	return nil
}
