package scheduler

import (
	"fmt"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// Parameters tune the selection policy and the repair passes.
type Parameters struct {
	PerShiftCap   int // max placements per employee on any one slot
	RestrictedCap int // cap for the restricted worker on the anchor-target slot
	AnchorMinimum int // minimum anchor-target placements for the anchor worker
}

// DefaultParameters returns the caps the production roster runs with.
func DefaultParameters() *Parameters {
	return &Parameters{
		PerShiftCap:   5,
		RestrictedCap: 3,
		AnchorMinimum: 2,
	}
}

// ConfigurationError marks malformed input that fails a run before any
// placement happens.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid scheduler configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

type WarningKind string

const (
	// WarningPlacementFailure: a slot had no eligible candidate even after
	// fallback and was left empty.
	WarningPlacementFailure WarningKind = "placement_failure"
	// WarningUnmetGuarantee: the anchor minimum or the one-shift-per-employee
	// guarantee could not be met within the month.
	WarningUnmetGuarantee WarningKind = "unmet_guarantee"
)

// Warning is a non-fatal condition attached to a completed run.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Day        int         `json:"day,omitempty"`
	ShiftID    int64       `json:"shiftID,omitempty"`
	EmployeeID int64       `json:"employeeID,omitempty"`
	Message    string      `json:"message"`
}

// Result is the output of one generation run.
type Result struct {
	Year     int                         `json:"year"`
	Month    int                         `json:"month"`
	Days     map[int]*domain.DaySchedule `json:"days"`
	Counter  map[int64]*domain.Tally     `json:"counter"`
	Warnings []Warning                   `json:"warnings"`
}

// counter is the mutable per-employee tally owned by a single run. Placements
// go through commit/revoke only, which keeps Total equal to the breakdown sum.
type counter struct {
	tallies map[int64]*domain.Tally
}

func newCounter(employees []*domain.Employee, shifts []*domain.Shift) *counter {
	c := &counter{tallies: make(map[int64]*domain.Tally, len(employees))}
	for _, e := range employees {
		perShift := make(map[int64]int, len(shifts))
		for _, s := range shifts {
			perShift[s.ID] = 0
		}
		c.tallies[e.ID] = &domain.Tally{PerShift: perShift}
	}
	return c
}

func (c *counter) commit(employeeID, shiftID int64) {
	t := c.tallies[employeeID]
	t.Total++
	t.PerShift[shiftID]++
}

func (c *counter) revoke(employeeID, shiftID int64) {
	t := c.tallies[employeeID]
	t.Total--
	t.PerShift[shiftID]--
}

func (c *counter) total(employeeID int64) int {
	return c.tallies[employeeID].Total
}

func (c *counter) perShift(employeeID, shiftID int64) int {
	return c.tallies[employeeID].PerShift[shiftID]
}

// snapshot deep-copies the tallies so the result cannot alias run state.
func (c *counter) snapshot() map[int64]*domain.Tally {
	out := make(map[int64]*domain.Tally, len(c.tallies))
	for id, t := range c.tallies {
		perShift := make(map[int64]int, len(t.PerShift))
		for shiftID, n := range t.PerShift {
			perShift[shiftID] = n
		}
		out[id] = &domain.Tally{Total: t.Total, PerShift: perShift}
	}
	return out
}
