package domain

import "time"

// SlotAssignment is the occupant of one shift slot on one day. Single slots
// use Single; dual-department slots use Care and Service. A nil pointer on a
// populated day means the slot could not be filled (placement failure).
type SlotAssignment struct {
	Single  *int64 `json:"single,omitempty"`
	Care    *int64 `json:"care,omitempty"`
	Service *int64 `json:"service,omitempty"`
}

// Holds reports whether the given employee occupies this slot.
func (sa *SlotAssignment) Holds(employeeID int64) bool {
	if sa == nil {
		return false
	}
	if sa.Single != nil && *sa.Single == employeeID {
		return true
	}
	if sa.Care != nil && *sa.Care == employeeID {
		return true
	}
	if sa.Service != nil && *sa.Service == employeeID {
		return true
	}
	return false
}

// DaySchedule is one calendar day of the month. Weekend days carry the
// sentinel flag and no slots.
type DaySchedule struct {
	Weekend bool                      `json:"weekend,omitempty"`
	Slots   map[int64]*SlotAssignment `json:"slots,omitempty"`
}

// Includes reports whether the employee appears anywhere on this day.
func (ds *DaySchedule) Includes(employeeID int64) bool {
	if ds == nil || ds.Weekend {
		return false
	}
	for _, slot := range ds.Slots {
		if slot.Holds(employeeID) {
			return true
		}
	}
	return false
}

// Tally is the per-employee shift count: the running total plus a breakdown
// per shift slot. Total always equals the sum of the breakdown.
type Tally struct {
	Total    int           `json:"total"`
	PerShift map[int64]int `json:"perShift"`
}

// RosterStatistic is one employee's final tally in a saved roster.
type RosterStatistic struct {
	EmployeeID   int64         `json:"employeeID"`
	EmployeeName string        `json:"employeeName"`
	Total        int           `json:"total"`
	Breakdown    map[int64]int `json:"breakdown"`
}

// Roster is one persisted solution for a month: the full day-by-day schedule
// plus the final per-employee statistics, numbered within its (year, month).
type Roster struct {
	ID             int64                `json:"id"`
	Year           int                  `json:"year"`
	Month          int                  `json:"month"`
	SolutionNumber int32                `json:"solutionNumber"`
	Days           map[int]*DaySchedule `json:"days,omitempty"`
	Statistics     []RosterStatistic    `json:"statistics,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	Version        int32                `json:"-"`
}
