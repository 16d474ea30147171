package leave

import (
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Common leave types. The type field is free text, so these are
// suggestions for clients rather than an enum the server enforces.
const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeCasual = "casual"
	TypeUnpaid = "unpaid"
)

var (
	ErrNotFound          = errors.New("leave request not found")
	ErrInvalidTransition = errors.New("leave request already decided")
	ErrInvalidRange      = errors.New("leave end date precedes start date")
)

// transitions is the full state machine. Approved and rejected are
// terminal, so re-deciding a request is rejected rather than silently
// overwritten.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Request struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"companyId"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Type         string     `json:"type"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Days         int        `json:"days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	DecidedBy    *string    `json:"decidedBy,omitempty"`
	DecisionNote string     `json:"decisionNote,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// DayCount counts calendar days inclusive of both endpoints.
func DayCount(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}
