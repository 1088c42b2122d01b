package seed

import (
	"log/slog"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
	"github.com/nordvik-omsorg/vaktliste/backend/internal/repository"
)

type shiftSpec struct {
	displayTime    string
	label          string
	dualDepartment bool
	anchorTarget   bool
}

// The production catalog: six slots per weekday. Slots 3 and 6 are staffed by
// both departments, the rest by one person. Slot 5 is the anchor target.
var productionShifts = []shiftSpec{
	{displayTime: "07:00", label: "Vakt 1"},
	{displayTime: "07:15", label: "Vakt 2"},
	{displayTime: "08:00", label: "Vakt 3", dualDepartment: true},
	{displayTime: "08:30", label: "Vakt 4"},
	{displayTime: "09:00", label: "Vakt 5", anchorTarget: true},
	{displayTime: "09:30", label: "Vakt 6", dualDepartment: true},
}

// Slots 1/2 and 4/5 belong together on the printed list, index into
// productionShifts.
var partnerPairs = [][2]int{
	{0, 1},
	{3, 4},
}

type employeeSpec struct {
	name       string
	department domain.Department
	anchor     bool

	// Indices into productionShifts; empty means unrestricted.
	allowedShifts []int
}

var productionEmployees = []employeeSpec{
	{name: "Ingrid Hansen", department: domain.DepartmentCare, anchor: true},
	{name: "Solveig Berg", department: domain.DepartmentCare},
	{name: "Lars Johansen", department: domain.DepartmentCare},
	{name: "Marit Olsen", department: domain.DepartmentCare},
	{name: "Yvonne Larsen", department: domain.DepartmentService, allowedShifts: []int{1, 2, 3, 4}},
	{name: "Knut Pedersen", department: domain.DepartmentService},
	{name: "Astrid Nilsen", department: domain.DepartmentService},
	{name: "Erik Haugen", department: domain.DepartmentService},
}

// InstallProductionRoster inserts the real shift catalog and staff. It is not
// idempotent; run it once against an empty database.
func InstallProductionRoster(r *repository.Repository) {
	shifts := make([]*domain.Shift, 0, len(productionShifts))
	for _, spec := range productionShifts {
		shift := &domain.Shift{
			DisplayTime:    spec.displayTime,
			Label:          spec.label,
			DualDepartment: spec.dualDepartment,
			AnchorTarget:   spec.anchorTarget,
		}
		if err := r.CreateShift(shift); err != nil {
			slog.Error("unable to insert shift", "label", spec.label, "error", err)
			return
		}
		shifts = append(shifts, shift)
	}

	// Partner links can only be set once both shifts of a pair have ids.
	for _, pair := range partnerPairs {
		a, b := shifts[pair[0]], shifts[pair[1]]
		if err := r.SetShiftPartner(a.ID, b.ID); err != nil {
			slog.Error("unable to link shifts", "shift", a.Label, "partner", b.Label, "error", err)
			return
		}
		if err := r.SetShiftPartner(b.ID, a.ID); err != nil {
			slog.Error("unable to link shifts", "shift", b.Label, "partner", a.Label, "error", err)
			return
		}
	}

	cnt := 0
	for _, spec := range productionEmployees {
		employee := &domain.Employee{
			Name:       spec.name,
			Department: spec.department,
			Anchor:     spec.anchor,
		}
		for _, idx := range spec.allowedShifts {
			employee.AllowedShiftIDs = append(employee.AllowedShiftIDs, shifts[idx].ID)
		}

		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("unable to insert employee", "name", spec.name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("production roster installed", "shifts", len(shifts), "employees", cnt)
}
