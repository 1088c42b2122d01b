package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string  `json:"name" validate:"required"`
		Department      string  `json:"department" validate:"required,oneof=care service"`
		AllowedShiftIDs []int64 `json:"allowedShiftIDs" validate:"omitempty,dive,gt=0"`
		Anchor          bool    `json:"anchor"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		Name:            req.Name,
		Department:      domain.Department(req.Department),
		AllowedShiftIDs: req.AllowedShiftIDs,
		Anchor:          req.Anchor,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employee_allowed_shifts_shift_id_fkey":
			h.errorResponse(w, r, "an allowed shift does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee created", employee)
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employees fetched", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)
	h.successResponse(w, r, "employee fetched", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string  `json:"name"`
		Department      *string  `json:"department" validate:"omitempty,oneof=care service"`
		AllowedShiftIDs *[]int64 `json:"allowedShiftIDs" validate:"omitempty,dive,gt=0"`
		Anchor          *bool    `json:"anchor"`
		IsActive        *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Department != nil {
		employee.Department = domain.Department(*req.Department)
	}
	if req.AllowedShiftIDs != nil {
		employee.AllowedShiftIDs = *req.AllowedShiftIDs
	}
	if req.Anchor != nil {
		employee.Anchor = *req.Anchor
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "the employee was modified concurrently, please retry")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employee_allowed_shifts_shift_id_fkey":
			h.errorResponse(w, r, "an allowed shift does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "employee updated", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeInfoCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "employee deleted", nil)
}
