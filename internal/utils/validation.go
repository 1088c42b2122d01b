package utils

import (
	"fmt"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// ValidateNoDuplicateAssignments checks same-day exclusivity: no employee may
// hold more than one slot on the same day.
func ValidateNoDuplicateAssignments(days map[int]*domain.DaySchedule) error {
	for day, ds := range days {
		if ds.Weekend {
			continue
		}

		seen := make(map[int64]int64)
		check := func(shiftID int64, employeeID *int64) error {
			if employeeID == nil {
				return nil
			}
			if other, exists := seen[*employeeID]; exists {
				return fmt.Errorf("employee %d holds both shift %d and shift %d on day %d", *employeeID, other, shiftID, day)
			}
			seen[*employeeID] = shiftID
			return nil
		}

		for shiftID, slot := range ds.Slots {
			if err := check(shiftID, slot.Single); err != nil {
				return err
			}
			if err := check(shiftID, slot.Care); err != nil {
				return err
			}
			if err := check(shiftID, slot.Service); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateRestrictions checks that no restricted employee appears on a slot
// outside their allowed set.
func ValidateRestrictions(days map[int]*domain.DaySchedule, employees []*domain.Employee) error {
	byID := make(map[int64]*domain.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	for day, ds := range days {
		if ds.Weekend {
			continue
		}
		for shiftID, slot := range ds.Slots {
			for _, occupant := range []*int64{slot.Single, slot.Care, slot.Service} {
				if occupant == nil {
					continue
				}
				e, exists := byID[*occupant]
				if !exists {
					return fmt.Errorf("unknown employee %d on shift %d of day %d", *occupant, shiftID, day)
				}
				if !e.MayTake(shiftID) {
					return fmt.Errorf("employee %d is not allowed on shift %d but holds it on day %d", e.ID, shiftID, day)
				}
			}
		}
	}

	return nil
}

// ValidateCounterMatchesSchedule checks that every tally equals both the sum
// of its per-shift breakdown and the employee's actual appearances.
func ValidateCounterMatchesSchedule(days map[int]*domain.DaySchedule, counter map[int64]*domain.Tally) error {
	appearances := make(map[int64]int)
	perShift := make(map[int64]map[int64]int)

	for _, ds := range days {
		if ds.Weekend {
			continue
		}
		for shiftID, slot := range ds.Slots {
			for _, occupant := range []*int64{slot.Single, slot.Care, slot.Service} {
				if occupant == nil {
					continue
				}
				appearances[*occupant]++
				if perShift[*occupant] == nil {
					perShift[*occupant] = make(map[int64]int)
				}
				perShift[*occupant][shiftID]++
			}
		}
	}

	for employeeID, tally := range counter {
		sum := 0
		for shiftID, n := range tally.PerShift {
			sum += n
			if got := perShift[employeeID][shiftID]; got != n {
				return fmt.Errorf("employee %d has %d recorded placements on shift %d but appears %d times", employeeID, n, shiftID, got)
			}
		}
		if tally.Total != sum {
			return fmt.Errorf("employee %d has total %d but breakdown sums to %d", employeeID, tally.Total, sum)
		}
		if tally.Total != appearances[employeeID] {
			return fmt.Errorf("employee %d has total %d but appears %d times in the schedule", employeeID, tally.Total, appearances[employeeID])
		}
	}

	return nil
}
