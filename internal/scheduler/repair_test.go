package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// place puts an employee into a slot and books the counters, mimicking what
// the assignment phase would have done.
func place(s *Scheduler, ds *domain.DaySchedule, shiftID int64, employeeID int64) {
	slot := ds.Slots[shiftID]
	if slot == nil {
		slot = &domain.SlotAssignment{}
		ds.Slots[shiftID] = slot
	}
	slot.Single = &employeeID
	s.counter.commit(employeeID, shiftID)
}

func emptyWeekday() *domain.DaySchedule {
	return &domain.DaySchedule{Slots: make(map[int64]*domain.SlotAssignment)}
}

func TestRepairAnchorForcesAttendance(t *testing.T) {
	s := newTestScheduler(t)

	// Day 1: the anchor is absent and employee 2 holds the target slot.
	ds := emptyWeekday()
	place(s, ds, 5, 2)
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairAnchor(days, 1)

	slot := ds.Slots[5]
	require.NotNil(t, slot.Single)
	assert.Equal(t, int64(1), *slot.Single)

	// The displaced occupant's booking must be rolled back.
	assert.Equal(t, 0, s.counter.total(2))
	assert.Equal(t, 0, s.counter.perShift(2, 5))
	assert.Equal(t, 1, s.counter.perShift(1, 5))
}

func TestRepairAnchorSkipsDaysWithAnchorPresent(t *testing.T) {
	s := newTestScheduler(t)
	s.params.AnchorMinimum = 0

	// The anchor already works shift 2 on day 1; nothing should move.
	ds := emptyWeekday()
	place(s, ds, 2, 1)
	place(s, ds, 5, 2)
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairAnchor(days, 1)

	assert.Equal(t, int64(1), *ds.Slots[2].Single)
	assert.Equal(t, int64(2), *ds.Slots[5].Single)
	assert.Empty(t, s.warnings)
}

func TestRepairAnchorMovesOntoTargetSlot(t *testing.T) {
	s := newTestScheduler(t)
	s.params.AnchorMinimum = 1

	// The anchor works day 1 but on shift 2; employee 2 holds the target.
	ds := emptyWeekday()
	place(s, ds, 2, 1)
	place(s, ds, 5, 2)
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairAnchor(days, 1)

	slot := ds.Slots[5]
	require.NotNil(t, slot.Single)
	assert.Equal(t, int64(1), *slot.Single)

	assert.Equal(t, 0, s.counter.perShift(1, 2))
	assert.Equal(t, 1, s.counter.perShift(1, 5))

	// Employee 2 lost the target slot but is free again, so the vacated slot
	// is backfilled with exactly that employee.
	assert.Equal(t, 0, s.counter.perShift(2, 5))
	vacated := ds.Slots[2]
	require.NotNil(t, vacated.Single)
	backfiller := *vacated.Single
	assert.NotEqual(t, int64(1), backfiller)
	assert.Contains(t, []int64{2, 3, 4}, backfiller)
	assert.Equal(t, 1, s.counter.perShift(backfiller, 2))
}

func TestRepairAnchorBackfillRespectsSameDayExclusivity(t *testing.T) {
	s := newTestScheduler(t)
	s.params.AnchorMinimum = 1

	// Every other care employee already works today, so the vacated slot
	// cannot be backfilled and must stay open with a warning.
	ds := emptyWeekday()
	place(s, ds, 1, 2)
	place(s, ds, 2, 1)
	place(s, ds, 3, 3)
	place(s, ds, 4, 4)
	place(s, ds, 5, 6)
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairAnchor(days, 1)

	assert.Equal(t, int64(1), *ds.Slots[5].Single)
	assert.Nil(t, ds.Slots[2].Single)

	require.Len(t, s.warnings, 1)
	assert.Equal(t, WarningPlacementFailure, s.warnings[0].Kind)
	assert.Equal(t, int64(2), s.warnings[0].ShiftID)
}

func TestRepairAnchorUnmetMinimumWarns(t *testing.T) {
	s := newTestScheduler(t)
	s.params.AnchorMinimum = 5

	// One weekday gives at most one target placement; the minimum of five
	// cannot be reached.
	ds := emptyWeekday()
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairAnchor(days, 1)

	assert.Equal(t, int64(1), *ds.Slots[5].Single)

	require.Len(t, s.warnings, 1)
	assert.Equal(t, WarningUnmetGuarantee, s.warnings[0].Kind)
	assert.Equal(t, int64(1), s.warnings[0].EmployeeID)
	assert.Equal(t, int64(5), s.warnings[0].ShiftID)
}

func TestRepairMinimumOnePlacesIdleEmployees(t *testing.T) {
	s := newTestScheduler(t)

	// Employee 2 holds the target on day 1, day 2 is open. Employees 3 and 4
	// have no shifts at all.
	day1 := emptyWeekday()
	place(s, day1, 5, 2)
	day2 := emptyWeekday()
	days := map[int]*domain.DaySchedule{1: day1, 2: day2}

	// Give everyone else a shift so only 3 and 4 are pending.
	filler := emptyWeekday()
	place(s, filler, 1, 6)
	place(s, filler, 2, 7)
	place(s, filler, 3, 8)
	days[3] = filler
	s.counter.commit(1, 2) // the anchor is never pending anyway

	s.repairMinimumOne(days, 3)

	// Day 1: employee 3 displaces employee 2 on the target slot. That was
	// employee 2's only shift, so 2 rejoins the queue.
	require.NotNil(t, day1.Slots[5].Single)
	assert.Equal(t, int64(3), *day1.Slots[5].Single)

	// Day 2: employee 4 takes the open target slot.
	require.NotNil(t, day2.Slots[5].Single)
	assert.Equal(t, int64(4), *day2.Slots[5].Single)

	// Day 3: employee 2 lands on the still-open target slot.
	require.NotNil(t, filler.Slots[5])
	require.NotNil(t, filler.Slots[5].Single)
	assert.Equal(t, int64(2), *filler.Slots[5].Single)

	assert.Equal(t, 1, s.counter.total(2))
	assert.Equal(t, 1, s.counter.total(3))
	assert.Equal(t, 1, s.counter.total(4))
	assert.Empty(t, s.warnings)
}

func TestRepairMinimumOneWarnsWhenDisplacedRunsOutOfDays(t *testing.T) {
	s := newTestScheduler(t)

	// Employee 2's only shift is the target slot of the single weekday and
	// employee 3 is idle. Placing 3 strips 2's only shift with no day left to
	// requeue onto, which must surface as a warning for 2.
	ds := emptyWeekday()
	place(s, ds, 5, 2)
	days := map[int]*domain.DaySchedule{1: ds}

	filler := emptyWeekday()
	place(s, filler, 1, 4)
	place(s, filler, 2, 6)
	place(s, filler, 3, 7)
	place(s, filler, 4, 8)
	place(s, filler, 6, 1)
	days[0] = filler // outside the day loop, bookkeeping only

	s.repairMinimumOne(days, 1)

	require.NotNil(t, ds.Slots[5].Single)
	assert.Equal(t, int64(3), *ds.Slots[5].Single)
	assert.Equal(t, 0, s.counter.total(2))

	require.Len(t, s.warnings, 1)
	assert.Equal(t, WarningUnmetGuarantee, s.warnings[0].Kind)
	assert.Equal(t, int64(2), s.warnings[0].EmployeeID)
}

func TestRepairMinimumOneNeverDisplacesAnchor(t *testing.T) {
	s := newTestScheduler(t)

	// The anchor holds the only target slot of the month.
	ds := emptyWeekday()
	place(s, ds, 5, 1)
	days := map[int]*domain.DaySchedule{1: ds}

	s.repairMinimumOne(days, 1)

	assert.Equal(t, int64(1), *ds.Slots[5].Single)
	assert.Equal(t, 1, s.counter.total(1))

	// The six idle unrestricted employees run out of weekdays and get a
	// warning each.
	require.Len(t, s.warnings, 6)
	for _, w := range s.warnings {
		assert.Equal(t, WarningUnmetGuarantee, w.Kind)
	}
}

func TestRepairMinimumOneSkipsRestrictedAndWeekends(t *testing.T) {
	s := newTestScheduler(t)

	weekend := &domain.DaySchedule{Weekend: true}
	ds := emptyWeekday()
	days := map[int]*domain.DaySchedule{1: weekend, 2: ds}

	// Give everyone but employees 5 (restricted) and 6 a shift.
	filler := emptyWeekday()
	place(s, filler, 1, 2)
	place(s, filler, 2, 3)
	place(s, filler, 3, 4)
	place(s, filler, 4, 7)
	place(s, filler, 5, 8)
	place(s, filler, 6, 1)
	days[3] = filler

	s.repairMinimumOne(days, 3)

	// The weekend stays untouched and employee 6 lands on day 2. The
	// restricted worker is left alone even though her total is zero.
	assert.Nil(t, weekend.Slots)
	require.NotNil(t, ds.Slots[5].Single)
	assert.Equal(t, int64(6), *ds.Slots[5].Single)
	assert.Equal(t, 0, s.counter.total(5))
	assert.Empty(t, s.warnings)
}
