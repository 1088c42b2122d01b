package handler

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
	"github.com/nordvik-omsorg/vaktliste/backend/internal/scheduler"
	"github.com/nordvik-omsorg/vaktliste/backend/internal/utils"
)

func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year          int    `json:"year" validate:"required,gt=0"`
		Month         int    `json:"month" validate:"required,min=1,max=12"`
		Seed          *int64 `json:"seed"`
		PerShiftCap   *int   `json:"perShiftCap" validate:"omitempty,gt=0"`
		RestrictedCap *int   `json:"restrictedCap" validate:"omitempty,gt=0"`
		AnchorMinimum *int   `json:"anchorMinimum" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	active := make([]*domain.Employee, 0, len(employees))
	for _, e := range employees {
		if e.IsActive {
			active = append(active, e)
		}
	}

	shifts, err := h.repository.GetAllShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	params := scheduler.DefaultParameters()
	if req.PerShiftCap != nil {
		params.PerShiftCap = *req.PerShiftCap
	}
	if req.RestrictedCap != nil {
		params.RestrictedCap = *req.RestrictedCap
	}
	if req.AnchorMinimum != nil {
		params.AnchorMinimum = *req.AnchorMinimum
	}

	opts := []scheduler.Option{}
	if req.Seed != nil {
		opts = append(opts, scheduler.WithRandom(rand.New(rand.NewSource(*req.Seed))))
	} else {
		opts = append(opts, scheduler.WithRandom(rand.New(rand.NewSource(time.Now().UnixNano()))))
	}

	sched, err := scheduler.New(params, active, shifts, opts...)
	if err != nil {
		var configErr *scheduler.ConfigurationError
		switch {
		case errors.As(err, &configErr):
			h.errorResponse(w, r, configErr.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result, err := sched.Generate(req.Year, time.Month(req.Month))
	if err != nil {
		var configErr *scheduler.ConfigurationError
		switch {
		case errors.As(err, &configErr):
			h.errorResponse(w, r, configErr.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	type generated struct {
		Year       int                         `json:"year"`
		Month      int                         `json:"month"`
		Days       map[int]*domain.DaySchedule `json:"days"`
		Statistics []domain.RosterStatistic    `json:"statistics"`
		Warnings   []scheduler.Warning         `json:"warnings"`
	}

	h.successResponse(w, r, "roster generated", generated{
		Year:       result.Year,
		Month:      result.Month,
		Days:       result.Days,
		Statistics: rosterStatistics(active, result.Counter),
		Warnings:   result.Warnings,
	})
}

func (h *Handler) SaveRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year  int                         `json:"year" validate:"required,gt=0"`
		Month int                         `json:"month" validate:"required,min=1,max=12"`
		Days  map[int]*domain.DaySchedule `json:"days" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// The schedule may have been edited by hand between generation and save,
	// so the invariants are re-checked here.
	if err := utils.ValidateNoDuplicateAssignments(req.Days); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	if err := utils.ValidateRestrictions(req.Days, employees); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	roster := &domain.Roster{
		Year:       req.Year,
		Month:      req.Month,
		Days:       req.Days,
		Statistics: rosterStatistics(employees, tallyFromSchedule(req.Days)),
	}

	if err := h.repository.InsertRoster(roster); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster saved", roster)
}

func (h *Handler) GetRostersByMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		h.errorResponse(w, r, "invalid year")
		return
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		h.errorResponse(w, r, "invalid month")
		return
	}

	rosters, err := h.repository.GetRostersByMonth(year, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "rosters fetched", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)
	h.successResponse(w, r, "roster fetched", roster)
}

func (h *Handler) GetRosterStatistics(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)
	h.successResponse(w, r, "roster statistics fetched", roster.Statistics)
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	if err := h.repository.DeleteRoster(roster.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster deleted", nil)
}

// rosterStatistics turns a run's tallies into the persisted statistic rows,
// sorted by the order of the employees slice. Employees without a tally get a
// zero row so every name shows up in the overview.
func rosterStatistics(employees []*domain.Employee, counter map[int64]*domain.Tally) []domain.RosterStatistic {
	statistics := make([]domain.RosterStatistic, 0, len(employees))
	for _, e := range employees {
		stat := domain.RosterStatistic{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Breakdown:    make(map[int64]int),
		}

		if tally, exists := counter[e.ID]; exists {
			stat.Total = tally.Total
			for shiftID, n := range tally.PerShift {
				if n > 0 {
					stat.Breakdown[shiftID] = n
				}
			}
		}

		statistics = append(statistics, stat)
	}

	return statistics
}

// tallyFromSchedule recounts a schedule from scratch. Saved rosters derive
// their statistics from the submitted days, never from client-sent numbers.
func tallyFromSchedule(days map[int]*domain.DaySchedule) map[int64]*domain.Tally {
	counter := make(map[int64]*domain.Tally)

	record := func(shiftID int64, employeeID *int64) {
		if employeeID == nil {
			return
		}
		tally, exists := counter[*employeeID]
		if !exists {
			tally = &domain.Tally{PerShift: make(map[int64]int)}
			counter[*employeeID] = tally
		}
		tally.Total++
		tally.PerShift[shiftID]++
	}

	for _, ds := range days {
		if ds.Weekend {
			continue
		}
		for shiftID, slot := range ds.Slots {
			record(shiftID, slot.Single)
			record(shiftID, slot.Care)
			record(shiftID, slot.Service)
		}
	}

	return counter
}
