package attendance

import (
	"errors"
	"time"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusOnLeave = "on_leave"
)

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusLate, StatusAbsent, StatusOnLeave:
		return true
	}
	return false
}

type Record struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	EmployeeID string    `json:"employeeId"`
	WorkDate   time.Time `json:"workDate"`
	Status     string    `json:"status"`
	CheckIn    *string   `json:"checkIn,omitempty"`
	CheckOut   *string   `json:"checkOut,omitempty"`
	Note       string    `json:"note,omitempty"`
	MarkedBy   *string   `json:"markedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
