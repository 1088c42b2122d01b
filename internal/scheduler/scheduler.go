package scheduler

import (
	"math/rand"
	"time"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// Scheduler generates a monthly duty roster for two departments over a fixed
// shift catalog. One Scheduler owns its counter and department slices
// exclusively; concurrent runs must each construct their own instance.
type Scheduler struct {
	params       *Parameters
	shifts       []*domain.Shift
	dualShifts   []*domain.Shift
	singleShifts []*domain.Shift
	care         []*domain.Employee
	service      []*domain.Employee
	anchor       *domain.Employee
	anchorShift  *domain.Shift
	counter      *counter
	rng          *rand.Rand
	warnings     []Warning
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRandom injects a random source. The scheduler then shuffles the
// department rosters at the start of every run so repeated runs produce
// different solutions. Without it, runs are fully deterministic.
func WithRandom(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		s.rng = rng
	}
}

// New validates the roster and catalog and builds a Scheduler. Any malformed
// input is a *ConfigurationError; nothing is placed on failure.
func New(params *Parameters, employees []*domain.Employee, shifts []*domain.Shift, opts ...Option) (*Scheduler, error) {
	if params == nil {
		params = DefaultParameters()
	}
	if params.PerShiftCap <= 0 || params.RestrictedCap <= 0 {
		return nil, configErrorf("per-shift caps must be positive")
	}
	if params.AnchorMinimum < 0 {
		return nil, configErrorf("anchor minimum must not be negative")
	}
	if len(shifts) == 0 {
		return nil, configErrorf("shift catalog is empty")
	}

	s := &Scheduler{
		params: params,
		shifts: shifts,
	}

	knownShifts := make(map[int64]bool, len(shifts))
	for _, shift := range shifts {
		if shift.ID <= 0 {
			return nil, configErrorf("shift %q has a non-positive id", shift.Label)
		}
		if knownShifts[shift.ID] {
			return nil, configErrorf("duplicate shift id %d", shift.ID)
		}
		knownShifts[shift.ID] = true

		if shift.DualDepartment {
			s.dualShifts = append(s.dualShifts, shift)
		} else {
			s.singleShifts = append(s.singleShifts, shift)
		}

		if shift.AnchorTarget {
			if s.anchorShift != nil {
				return nil, configErrorf("more than one anchor-target shift in the catalog")
			}
			if shift.DualDepartment {
				return nil, configErrorf("anchor-target shift %d must be a single slot", shift.ID)
			}
			s.anchorShift = shift
		}
	}

	for _, e := range employees {
		switch e.Department {
		case domain.DepartmentCare:
			s.care = append(s.care, e)
		case domain.DepartmentService:
			s.service = append(s.service, e)
		default:
			return nil, configErrorf("employee %d has unknown department %q", e.ID, e.Department)
		}

		for _, shiftID := range e.AllowedShiftIDs {
			if !knownShifts[shiftID] {
				return nil, configErrorf("employee %d restriction references unknown shift %d", e.ID, shiftID)
			}
		}

		if e.Anchor {
			if s.anchor != nil {
				return nil, configErrorf("more than one anchor employee")
			}
			s.anchor = e
		}
	}

	if len(s.care) == 0 || len(s.service) == 0 {
		return nil, configErrorf("both departments must have at least one employee")
	}
	if s.anchorShift == nil {
		// The repair passes place onto this slot, so the catalog must name it
		// even when no employee is anchored.
		return nil, configErrorf("the catalog must flag exactly one single slot as anchor target")
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Generate produces the roster for one month. The counter and schedule are
// created fresh per run; repeated calls never carry state over. Placement
// failures and unmet guarantees are returned as warnings on the result, not
// as errors.
func (s *Scheduler) Generate(year int, month time.Month) (*Result, error) {
	if year <= 0 {
		return nil, configErrorf("non-positive year %d", year)
	}
	if month < time.January || month > time.December {
		return nil, configErrorf("invalid month %d", month)
	}

	s.counter = newCounter(s.allEmployees(), s.shifts)
	s.warnings = nil

	if s.rng != nil {
		shuffle(s.rng, s.care)
		shuffle(s.rng, s.service)
	}

	daysInMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()

	days := make(map[int]*domain.DaySchedule, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			days[day] = &domain.DaySchedule{Weekend: true}
			continue
		}
		days[day] = s.assignDay(day)
	}

	s.repairAnchor(days, daysInMonth)
	s.repairMinimumOne(days, daysInMonth)

	return &Result{
		Year:     year,
		Month:    int(month),
		Days:     days,
		Counter:  s.counter.snapshot(),
		Warnings: s.warnings,
	}, nil
}

func (s *Scheduler) allEmployees() []*domain.Employee {
	all := make([]*domain.Employee, 0, len(s.care)+len(s.service))
	all = append(all, s.care...)
	all = append(all, s.service...)
	return all
}

func (s *Scheduler) warnf(w Warning) {
	s.warnings = append(s.warnings, w)
}

func shuffle(rng *rand.Rand, employees []*domain.Employee) {
	rng.Shuffle(len(employees), func(i, j int) {
		employees[i], employees[j] = employees[j], employees[i]
	})
}
