package scheduler

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
	"github.com/nordvik-omsorg/vaktliste/backend/internal/utils"
)

func testShifts() []*domain.Shift {
	return []*domain.Shift{
		{ID: 1, DisplayTime: "07:00", Label: "Vakt 1"},
		{ID: 2, DisplayTime: "07:15", Label: "Vakt 2"},
		{ID: 3, DisplayTime: "08:00", Label: "Vakt 3", DualDepartment: true},
		{ID: 4, DisplayTime: "08:30", Label: "Vakt 4"},
		{ID: 5, DisplayTime: "09:00", Label: "Vakt 5", AnchorTarget: true},
		{ID: 6, DisplayTime: "09:30", Label: "Vakt 6", DualDepartment: true},
	}
}

func testEmployees() []*domain.Employee {
	return []*domain.Employee{
		{ID: 1, Name: "Ingrid Hansen", Department: domain.DepartmentCare, Anchor: true},
		{ID: 2, Name: "Solveig Berg", Department: domain.DepartmentCare},
		{ID: 3, Name: "Lars Johansen", Department: domain.DepartmentCare},
		{ID: 4, Name: "Marit Olsen", Department: domain.DepartmentCare},
		{ID: 5, Name: "Yvonne Larsen", Department: domain.DepartmentService, AllowedShiftIDs: []int64{2, 3, 4, 5}},
		{ID: 6, Name: "Knut Pedersen", Department: domain.DepartmentService},
		{ID: 7, Name: "Astrid Nilsen", Department: domain.DepartmentService},
		{ID: 8, Name: "Erik Haugen", Department: domain.DepartmentService},
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		params    *Parameters
		employees func() []*domain.Employee
		shifts    func() []*domain.Shift
		wantErr   string
	}{
		{
			name:      "valid input",
			employees: testEmployees,
			shifts:    testShifts,
		},
		{
			name:      "nil params fall back to defaults",
			params:    nil,
			employees: testEmployees,
			shifts:    testShifts,
		},
		{
			name:      "non-positive cap",
			params:    &Parameters{PerShiftCap: 0, RestrictedCap: 3},
			employees: testEmployees,
			shifts:    testShifts,
			wantErr:   "caps must be positive",
		},
		{
			name:      "negative anchor minimum",
			params:    &Parameters{PerShiftCap: 5, RestrictedCap: 3, AnchorMinimum: -1},
			employees: testEmployees,
			shifts:    testShifts,
			wantErr:   "anchor minimum",
		},
		{
			name:      "empty catalog",
			employees: testEmployees,
			shifts:    func() []*domain.Shift { return nil },
			wantErr:   "catalog is empty",
		},
		{
			name:      "duplicate shift id",
			employees: testEmployees,
			shifts: func() []*domain.Shift {
				shifts := testShifts()
				shifts[1].ID = shifts[0].ID
				return shifts
			},
			wantErr: "duplicate shift id",
		},
		{
			name:      "non-positive shift id",
			employees: testEmployees,
			shifts: func() []*domain.Shift {
				shifts := testShifts()
				shifts[0].ID = 0
				return shifts
			},
			wantErr: "non-positive id",
		},
		{
			name:      "two anchor-target shifts",
			employees: testEmployees,
			shifts: func() []*domain.Shift {
				shifts := testShifts()
				shifts[0].AnchorTarget = true
				return shifts
			},
			wantErr: "more than one anchor-target shift",
		},
		{
			name:      "dual anchor-target shift",
			employees: testEmployees,
			shifts: func() []*domain.Shift {
				shifts := testShifts()
				shifts[4].DualDepartment = true
				return shifts
			},
			wantErr: "must be a single slot",
		},
		{
			name:      "no anchor-target shift",
			employees: testEmployees,
			shifts: func() []*domain.Shift {
				shifts := testShifts()
				shifts[4].AnchorTarget = false
				return shifts
			},
			wantErr: "exactly one single slot as anchor target",
		},
		{
			name: "unknown department",
			employees: func() []*domain.Employee {
				employees := testEmployees()
				employees[2].Department = "kitchen"
				return employees
			},
			shifts:  testShifts,
			wantErr: "unknown department",
		},
		{
			name: "restriction references unknown shift",
			employees: func() []*domain.Employee {
				employees := testEmployees()
				employees[4].AllowedShiftIDs = []int64{2, 99}
				return employees
			},
			shifts:  testShifts,
			wantErr: "unknown shift",
		},
		{
			name: "two anchor employees",
			employees: func() []*domain.Employee {
				employees := testEmployees()
				employees[1].Anchor = true
				return employees
			},
			shifts:  testShifts,
			wantErr: "more than one anchor employee",
		},
		{
			name: "empty department",
			employees: func() []*domain.Employee {
				return testEmployees()[:4] // care only
			},
			shifts:  testShifts,
			wantErr: "both departments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.params, tt.employees(), tt.shifts())
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, s)
				return
			}

			require.Error(t, err)
			var configErr *ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, s)
		})
	}
}

func TestGenerateRejectsInvalidMonth(t *testing.T) {
	s, err := New(nil, testEmployees(), testShifts())
	require.NoError(t, err)

	_, err = s.Generate(0, time.February)
	require.Error(t, err)

	_, err = s.Generate(2025, time.Month(13))
	require.Error(t, err)
}

func TestGenerateFullMonth(t *testing.T) {
	employees := testEmployees()
	shifts := testShifts()

	s, err := New(nil, employees, shifts)
	require.NoError(t, err)

	// February 2025 starts on a Saturday and has 20 weekdays.
	result, err := s.Generate(2025, time.February)
	require.NoError(t, err)

	assert.Equal(t, 2025, result.Year)
	assert.Equal(t, 2, result.Month)
	require.Len(t, result.Days, 28)

	// An open slot is only acceptable when the run reported a placement
	// failure for it.
	failed := make(map[[2]int64]bool)
	for _, w := range result.Warnings {
		if w.Kind == WarningPlacementFailure {
			failed[[2]int64{int64(w.Day), w.ShiftID}] = true
		}
	}

	weekdays := 0
	for day := 1; day <= 28; day++ {
		ds := result.Days[day]
		require.NotNil(t, ds, "day %d missing", day)

		weekday := time.Date(2025, time.February, day, 0, 0, 0, 0, time.UTC).Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			assert.True(t, ds.Weekend, "day %d should be a weekend", day)
			assert.Empty(t, ds.Slots)
			continue
		}

		weekdays++
		assert.False(t, ds.Weekend)
		assert.Len(t, ds.Slots, len(shifts), "day %d should carry every slot", day)

		for _, shift := range shifts {
			slot := ds.Slots[shift.ID]
			require.NotNil(t, slot, "day %d shift %d missing", day, shift.ID)
			if shift.DualDepartment {
				assert.Nil(t, slot.Single)
				if slot.Care == nil || slot.Service == nil {
					assert.True(t, failed[[2]int64{int64(day), shift.ID}], "day %d shift %d is open without a warning", day, shift.ID)
				}
			} else {
				assert.Nil(t, slot.Care)
				assert.Nil(t, slot.Service)
				if slot.Single == nil {
					assert.True(t, failed[[2]int64{int64(day), shift.ID}], "day %d shift %d is open without a warning", day, shift.ID)
				}
			}
		}
	}
	assert.Equal(t, 20, weekdays)

	require.NoError(t, utils.ValidateNoDuplicateAssignments(result.Days))
	require.NoError(t, utils.ValidateRestrictions(result.Days, employees))
	require.NoError(t, utils.ValidateCounterMatchesSchedule(result.Days, result.Counter))
}

func TestGenerateAnchorGuarantees(t *testing.T) {
	s, err := New(nil, testEmployees(), testShifts())
	require.NoError(t, err)

	result, err := s.Generate(2025, time.February)
	require.NoError(t, err)

	const anchorID = int64(1)

	for day, ds := range result.Days {
		if ds.Weekend {
			continue
		}
		assert.True(t, ds.Includes(anchorID), "anchor absent on day %d", day)
	}

	anchorTally := result.Counter[anchorID]
	require.NotNil(t, anchorTally)
	assert.GreaterOrEqual(t, anchorTally.PerShift[5], DefaultParameters().AnchorMinimum)
}

func TestGenerateEveryoneWorks(t *testing.T) {
	employees := testEmployees()

	s, err := New(nil, employees, testShifts())
	require.NoError(t, err)

	result, err := s.Generate(2025, time.February)
	require.NoError(t, err)

	for _, e := range employees {
		if e.Restricted() {
			continue
		}
		tally := result.Counter[e.ID]
		require.NotNil(t, tally)
		assert.GreaterOrEqual(t, tally.Total, 1, "employee %d got no shifts", e.ID)
	}

	for _, w := range result.Warnings {
		assert.NotEqual(t, WarningUnmetGuarantee, w.Kind, "unexpected unmet guarantee: %s", w.Message)
	}
}

func TestGenerateDeterministicWithoutRandomSource(t *testing.T) {
	first, err := New(nil, testEmployees(), testShifts())
	require.NoError(t, err)
	second, err := New(nil, testEmployees(), testShifts())
	require.NoError(t, err)

	a, err := first.Generate(2025, time.March)
	require.NoError(t, err)
	b, err := second.Generate(2025, time.March)
	require.NoError(t, err)

	assert.Equal(t, a.Days, b.Days)
	assert.Equal(t, a.Counter, b.Counter)
}

func TestGenerateSameSeedSameRoster(t *testing.T) {
	first, err := New(nil, testEmployees(), testShifts(), WithRandom(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	second, err := New(nil, testEmployees(), testShifts(), WithRandom(rand.New(rand.NewSource(42))))
	require.NoError(t, err)

	a, err := first.Generate(2025, time.March)
	require.NoError(t, err)
	b, err := second.Generate(2025, time.March)
	require.NoError(t, err)

	assert.Equal(t, a.Days, b.Days)
}

func TestGenerateRepeatedRunsCarryNoState(t *testing.T) {
	s, err := New(nil, testEmployees(), testShifts())
	require.NoError(t, err)

	a, err := s.Generate(2025, time.April)
	require.NoError(t, err)
	b, err := s.Generate(2025, time.April)
	require.NoError(t, err)

	assert.Equal(t, a.Days, b.Days)
	assert.Equal(t, a.Counter, b.Counter)
}

func TestGenerateOverstaffedMonthReportsEveryIdleEmployee(t *testing.T) {
	// 160 employees cannot all fit into a month of six-slot weekdays, so the
	// minimum-one pass is forced to displace placements, including some that
	// were an employee's only shift. Everyone left without a shift must be
	// named in a warning.
	employees := make([]*domain.Employee, 0, 160)
	for i := int64(1); i <= 160; i++ {
		department := domain.DepartmentCare
		if i > 80 {
			department = domain.DepartmentService
		}
		employees = append(employees, &domain.Employee{
			ID:         i,
			Name:       fmt.Sprintf("Ansatt %d", i),
			Department: department,
			Anchor:     i == 1,
		})
	}

	s, err := New(nil, employees, testShifts())
	require.NoError(t, err)

	result, err := s.Generate(2025, time.June)
	require.NoError(t, err)

	warned := make(map[int64]bool)
	for _, w := range result.Warnings {
		if w.Kind == WarningUnmetGuarantee {
			warned[w.EmployeeID] = true
		}
	}

	for _, e := range employees {
		if e.Restricted() || e.Anchor {
			continue
		}
		tally := result.Counter[e.ID]
		require.NotNil(t, tally)
		if tally.Total == 0 {
			assert.True(t, warned[e.ID], "employee %d has no shifts and no warning", e.ID)
		}
	}

	require.NoError(t, utils.ValidateCounterMatchesSchedule(result.Days, result.Counter))
}

func TestGenerateRandomizedMonthsHoldInvariants(t *testing.T) {
	employees := testEmployees()
	shifts := testShifts()

	for seed := int64(0); seed < 20; seed++ {
		s, err := New(nil, employees, shifts, WithRandom(rand.New(rand.NewSource(seed))))
		require.NoError(t, err)

		result, err := s.Generate(2025, time.Month(seed%12+1))
		require.NoError(t, err)

		require.NoError(t, utils.ValidateNoDuplicateAssignments(result.Days), "seed %d", seed)
		require.NoError(t, utils.ValidateRestrictions(result.Days, employees), "seed %d", seed)
		require.NoError(t, utils.ValidateCounterMatchesSchedule(result.Days, result.Counter), "seed %d", seed)

		for day, ds := range result.Days {
			if ds.Weekend {
				continue
			}
			assert.True(t, ds.Includes(1), "seed %d: anchor absent on day %d", seed, day)
		}
	}
}
