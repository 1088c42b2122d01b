package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

func ptr(id int64) *int64 {
	return &id
}

func TestValidateNoDuplicateAssignments(t *testing.T) {
	ok := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(10)},
			3: {Care: ptr(11), Service: ptr(12)},
		}},
		2: {Weekend: true},
	}
	require.NoError(t, ValidateNoDuplicateAssignments(ok))

	doubled := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(10)},
			2: {Single: ptr(10)},
		}},
	}
	err := ValidateNoDuplicateAssignments(doubled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee 10")

	// The same employee on different days is fine.
	spread := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{1: {Single: ptr(10)}}},
		2: {Slots: map[int64]*domain.SlotAssignment{1: {Single: ptr(10)}}},
	}
	require.NoError(t, ValidateNoDuplicateAssignments(spread))

	// A weekend day is skipped even if it somehow carries slots.
	weekend := map[int]*domain.DaySchedule{
		1: {Weekend: true, Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(10)},
			2: {Single: ptr(10)},
		}},
	}
	require.NoError(t, ValidateNoDuplicateAssignments(weekend))
}

func TestValidateRestrictions(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 10, Name: "A", Department: domain.DepartmentCare},
		{ID: 11, Name: "B", Department: domain.DepartmentService, AllowedShiftIDs: []int64{2, 3}},
	}

	ok := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(10)},
			2: {Single: ptr(11)},
		}},
	}
	require.NoError(t, ValidateRestrictions(ok, employees))

	outside := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(11)},
		}},
	}
	err := ValidateRestrictions(outside, employees)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")

	unknown := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(99)},
		}},
	}
	err = ValidateRestrictions(unknown, employees)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown employee")
}

func TestValidateCounterMatchesSchedule(t *testing.T) {
	days := map[int]*domain.DaySchedule{
		1: {Slots: map[int64]*domain.SlotAssignment{
			1: {Single: ptr(10)},
			3: {Care: ptr(10), Service: ptr(11)},
		}},
	}

	// Note: employee 10 appears twice on day 1, which is a duplication
	// problem, not a counting problem. The counter check only cares that the
	// numbers add up.
	ok := map[int64]*domain.Tally{
		10: {Total: 2, PerShift: map[int64]int{1: 1, 3: 1}},
		11: {Total: 1, PerShift: map[int64]int{3: 1}},
	}
	require.NoError(t, ValidateCounterMatchesSchedule(days, ok))

	wrongTotal := map[int64]*domain.Tally{
		10: {Total: 3, PerShift: map[int64]int{1: 1, 3: 1}},
	}
	err := ValidateCounterMatchesSchedule(days, wrongTotal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total 3")

	wrongBreakdown := map[int64]*domain.Tally{
		11: {Total: 1, PerShift: map[int64]int{2: 1}},
	}
	err = ValidateCounterMatchesSchedule(days, wrongBreakdown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shift 2")
}
