package domain

import "time"

type Department string

const (
	DepartmentCare    Department = "care"
	DepartmentService Department = "service"
)

// Employee is someone who can be placed on shifts. AllowedShiftIDs is the
// eligibility restriction: an empty list means the employee may take any
// shift. Anchor marks the one employee who must appear every weekday.
type Employee struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Department      Department `json:"department"`
	AllowedShiftIDs []int64    `json:"allowedShiftIDs"`
	Anchor          bool       `json:"anchor"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	Version         int32      `json:"-"`
}

// Restricted reports whether the employee carries an eligibility restriction.
func (e *Employee) Restricted() bool {
	return len(e.AllowedShiftIDs) > 0
}

// MayTake reports whether the employee is eligible for the given shift.
func (e *Employee) MayTake(shiftID int64) bool {
	if len(e.AllowedShiftIDs) == 0 {
		return true
	}
	for _, id := range e.AllowedShiftIDs {
		if id == shiftID {
			return true
		}
	}
	return false
}
