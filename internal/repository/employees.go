package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (name, department, anchor)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	args := []any{employee.Name, employee.Department, employee.Anchor}
	dst := []any{&employee.ID, &employee.IsActive, &employee.CreatedAt, &employee.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	for _, shiftID := range employee.AllowedShiftIDs {
		query = `
			INSERT INTO employee_allowed_shifts (employee_id, shift_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, shiftID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			e.id,
			e.name,
			e.department,
			e.anchor,
			e.is_active,
			e.created_at,
			e.version,
			eas.shift_id
		FROM employees e
		LEFT JOIN employee_allowed_shifts eas ON e.id = eas.employee_id
		ORDER BY e.id, eas.shift_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeesMap := make(map[int64]*domain.Employee)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID         int64
			Name       string
			Department domain.Department
			Anchor     bool
			IsActive   bool
			CreatedAt  time.Time
			Version    int32

			ShiftID sql.NullInt64
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Department,
			&row.Anchor,
			&row.IsActive,
			&row.CreatedAt,
			&row.Version,
			&row.ShiftID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := employeesMap[row.ID]; !exists {
			// First row for this employee, initialize it in the map.
			employeesMap[row.ID] = &domain.Employee{
				ID:              row.ID,
				Name:            row.Name,
				Department:      row.Department,
				Anchor:          row.Anchor,
				IsActive:        row.IsActive,
				CreatedAt:       row.CreatedAt,
				Version:         row.Version,
				AllowedShiftIDs: make([]int64, 0),
			}
			order = append(order, row.ID)
		}

		// A null shift id means the employee carries no restriction.
		if !row.ShiftID.Valid {
			continue
		}

		employeesMap[row.ID].AllowedShiftIDs = append(employeesMap[row.ID].AllowedShiftIDs, row.ShiftID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, employeesMap[id])
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			e.name,
			e.department,
			e.anchor,
			e.is_active,
			e.created_at,
			e.version,
			eas.shift_id
		FROM employees e
		LEFT JOIN employee_allowed_shifts eas ON e.id = eas.employee_id
		WHERE e.id = $1
		ORDER BY eas.shift_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employee := &domain.Employee{
		ID:              id,
		AllowedShiftIDs: make([]int64, 0),
	}
	found := false

	for rows.Next() {
		var shiftID sql.NullInt64

		dst := []any{
			&employee.Name,
			&employee.Department,
			&employee.Anchor,
			&employee.IsActive,
			&employee.CreatedAt,
			&employee.Version,
			&shiftID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		if shiftID.Valid {
			employee.AllowedShiftIDs = append(employee.AllowedShiftIDs, shiftID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return employee, nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE employees
		SET
			name = $1,
			department = $2,
			anchor = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	args := []any{employee.Name, employee.Department, employee.Anchor, employee.IsActive, employee.ID, employee.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	// Replace the restriction rows wholesale, the set is tiny.
	query = `DELETE FROM employee_allowed_shifts WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, employee.ID); err != nil {
		return err
	}

	for _, shiftID := range employee.AllowedShiftIDs {
		query = `
			INSERT INTO employee_allowed_shifts (employee_id, shift_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, shiftID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
