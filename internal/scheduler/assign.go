package scheduler

import (
	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// assignDay fills every slot of one weekday. Dual-department slots go first
// so both departments are represented before the single slots drain the
// remaining pool.
func (s *Scheduler) assignDay(day int) *domain.DaySchedule {
	ds := &domain.DaySchedule{
		Slots: make(map[int64]*domain.SlotAssignment, len(s.shifts)),
	}
	assignedToday := make(map[int64]bool)

	for _, shift := range s.dualShifts {
		slot := &domain.SlotAssignment{}

		if e := s.pickFromDepartment(day, shift, s.care, assignedToday); e != nil {
			slot.Care = &e.ID
			assignedToday[e.ID] = true
		} else {
			s.placementFailure(day, shift, domain.DepartmentCare)
		}

		if e := s.pickFromDepartment(day, shift, s.service, assignedToday); e != nil {
			slot.Service = &e.ID
			assignedToday[e.ID] = true
		} else {
			s.placementFailure(day, shift, domain.DepartmentService)
		}

		ds.Slots[shift.ID] = slot
	}

	for _, shift := range s.singleShifts {
		pool := s.eligible(shift, assignedToday)
		if len(pool) == 0 {
			// Everyone eligible already works today; escalate to the full
			// roster so the slot still gets covered.
			pool = s.eligible(shift, nil)
		}

		slot := &domain.SlotAssignment{}
		if e := s.pick(pool, shift); e != nil {
			slot.Single = &e.ID
			assignedToday[e.ID] = true
		} else {
			s.placementFailure(day, shift, "")
		}
		ds.Slots[shift.ID] = slot
	}

	return ds
}

// pickFromDepartment selects one employee of a department for a dual slot,
// falling back to the full department roster when everyone eligible is
// already assigned today.
func (s *Scheduler) pickFromDepartment(day int, shift *domain.Shift, dept []*domain.Employee, assignedToday map[int64]bool) *domain.Employee {
	pool := filterEligible(dept, shift, assignedToday)
	if len(pool) == 0 {
		pool = filterEligible(dept, shift, nil)
	}
	return s.pick(pool, shift)
}

// eligible builds the combined candidate pool for a single slot, care
// department first. Pool order is the tie-break order, so with no random
// source the input roster order decides ties.
func (s *Scheduler) eligible(shift *domain.Shift, assignedToday map[int64]bool) []*domain.Employee {
	pool := filterEligible(s.care, shift, assignedToday)
	return append(pool, filterEligible(s.service, shift, assignedToday)...)
}

func filterEligible(employees []*domain.Employee, shift *domain.Shift, assignedToday map[int64]bool) []*domain.Employee {
	pool := make([]*domain.Employee, 0, len(employees))
	for _, e := range employees {
		if assignedToday != nil && assignedToday[e.ID] {
			continue
		}
		if !e.MayTake(shift.ID) {
			continue
		}
		pool = append(pool, e)
	}
	return pool
}
