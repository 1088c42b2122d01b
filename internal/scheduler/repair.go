package scheduler

import (
	"fmt"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// repairAnchor runs the first corrective sweep: the anchor worker must appear
// on every weekday, and must hold the anchor-target slot at least
// AnchorMinimum times. This pass runs strictly before repairMinimumOne.
func (s *Scheduler) repairAnchor(days map[int]*domain.DaySchedule, daysInMonth int) {
	if s.anchor == nil {
		return
	}

	// Sweep 1: force attendance on days the anchor is absent.
	for day := 1; day <= daysInMonth; day++ {
		ds := days[day]
		if ds.Weekend || ds.Includes(s.anchor.ID) {
			continue
		}
		s.forceAnchorSlot(ds)
	}

	// Sweep 2: if the target-slot minimum is still unmet, move the anchor
	// from other slots onto the target slot, backfilling what she vacates.
	for day := 1; day <= daysInMonth; day++ {
		if s.counter.perShift(s.anchor.ID, s.anchorShift.ID) >= s.params.AnchorMinimum {
			break
		}
		ds := days[day]
		if ds.Weekend {
			continue
		}

		shiftID, slot := s.anchorElsewhere(ds)
		if slot == nil {
			continue
		}

		vacated := s.shiftByID(shiftID)
		s.removeFromSlot(slot, s.anchor.ID)
		s.counter.revoke(s.anchor.ID, shiftID)

		s.forceAnchorSlot(ds)
		s.backfill(day, ds, vacated, slot)
	}

	if got := s.counter.perShift(s.anchor.ID, s.anchorShift.ID); got < s.params.AnchorMinimum {
		s.warnf(Warning{
			Kind:       WarningUnmetGuarantee,
			ShiftID:    s.anchorShift.ID,
			EmployeeID: s.anchor.ID,
			Message: fmt.Sprintf("anchor employee %d has %d placements on shift %d, minimum is %d",
				s.anchor.ID, got, s.anchorShift.ID, s.params.AnchorMinimum),
		})
	}
}

// forceAnchorSlot puts the anchor into the target slot of one day,
// unconditionally displacing the current occupant.
func (s *Scheduler) forceAnchorSlot(ds *domain.DaySchedule) {
	slot := ds.Slots[s.anchorShift.ID]
	if slot == nil {
		slot = &domain.SlotAssignment{}
		ds.Slots[s.anchorShift.ID] = slot
	}
	if slot.Single != nil {
		s.counter.revoke(*slot.Single, s.anchorShift.ID)
	}
	slot.Single = &s.anchor.ID
	s.counter.commit(s.anchor.ID, s.anchorShift.ID)
}

// anchorElsewhere finds the slot the anchor holds on this day, if it is not
// the target slot.
func (s *Scheduler) anchorElsewhere(ds *domain.DaySchedule) (int64, *domain.SlotAssignment) {
	for shiftID, slot := range ds.Slots {
		if shiftID == s.anchorShift.ID {
			continue
		}
		if slot.Holds(s.anchor.ID) {
			return shiftID, slot
		}
	}
	return 0, nil
}

func (s *Scheduler) removeFromSlot(slot *domain.SlotAssignment, employeeID int64) {
	switch {
	case slot.Single != nil && *slot.Single == employeeID:
		slot.Single = nil
	case slot.Care != nil && *slot.Care == employeeID:
		slot.Care = nil
	case slot.Service != nil && *slot.Service == employeeID:
		slot.Service = nil
	}
}

// backfill fills the slot the anchor vacated with someone from her own
// department who is not already working that day. An empty pool leaves the
// slot open and records a placement failure.
func (s *Scheduler) backfill(day int, ds *domain.DaySchedule, shift *domain.Shift, slot *domain.SlotAssignment) {
	dept := s.care
	if s.anchor.Department == domain.DepartmentService {
		dept = s.service
	}

	pool := make([]*domain.Employee, 0, len(dept))
	for _, e := range dept {
		if e.ID == s.anchor.ID || ds.Includes(e.ID) || !e.MayTake(shift.ID) {
			continue
		}
		pool = append(pool, e)
	}

	e := s.pick(pool, shift)
	if e == nil {
		s.placementFailure(day, shift, s.anchor.Department)
		return
	}

	if shift.DualDepartment {
		if s.anchor.Department == domain.DepartmentCare {
			slot.Care = &e.ID
		} else {
			slot.Service = &e.ID
		}
	} else {
		slot.Single = &e.ID
	}
}

// repairMinimumOne runs the second corrective sweep: every employee outside
// the anchor and restriction rules must work at least once. Placements are
// unconditional overwrites of the target slot, one day per employee, except
// that the anchor is never displaced.
func (s *Scheduler) repairMinimumOne(days map[int]*domain.DaySchedule, daysInMonth int) {
	// The restricted worker is exempt: the forced placement targets one fixed
	// slot, which may be outside her allowed set.
	covered := func(e *domain.Employee) bool {
		return e.Restricted() || e.Anchor
	}

	byID := make(map[int64]*domain.Employee)
	pending := make([]*domain.Employee, 0)
	for _, e := range s.allEmployees() {
		byID[e.ID] = e
		if covered(e) {
			continue
		}
		if s.counter.total(e.ID) == 0 {
			pending = append(pending, e)
		}
	}

	for day := 1; day <= daysInMonth && len(pending) > 0; day++ {
		ds := days[day]
		if ds.Weekend {
			continue
		}

		slot := ds.Slots[s.anchorShift.ID]
		if slot == nil {
			slot = &domain.SlotAssignment{}
			ds.Slots[s.anchorShift.ID] = slot
		}
		if slot.Single != nil {
			if s.anchor != nil && *slot.Single == s.anchor.ID {
				continue
			}
			displaced := *slot.Single
			s.counter.revoke(displaced, s.anchorShift.ID)
			// Stripping the occupant's only shift would trade one idle
			// employee for another, so they rejoin the queue for a later day.
			if d := byID[displaced]; d != nil && !covered(d) && s.counter.total(displaced) == 0 {
				pending = append(pending, d)
			}
		}

		e := pending[0]
		pending = pending[1:]
		slot.Single = &e.ID
		s.counter.commit(e.ID, s.anchorShift.ID)
	}

	for _, e := range pending {
		s.warnf(Warning{
			Kind:       WarningUnmetGuarantee,
			EmployeeID: e.ID,
			Message:    fmt.Sprintf("employee %d could not be given a shift, the month ran out of weekdays", e.ID),
		})
	}
}

func (s *Scheduler) shiftByID(id int64) *domain.Shift {
	for _, shift := range s.shifts {
		if shift.ID == id {
			return shift
		}
	}
	return nil
}
