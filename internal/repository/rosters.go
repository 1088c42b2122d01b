package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

// InsertRoster persists one generated solution. The solution number is
// computed inside the transaction as MAX(solution_number)+1 for the roster's
// (year, month), so concurrent saves cannot collide.
func (r *Repository) InsertRoster(roster *domain.Roster) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	scheduleData, err := json.Marshal(roster.Days)
	if err != nil {
		return err
	}

	query := `
		SELECT COALESCE(MAX(solution_number), 0)
		FROM rosters
		WHERE year = $1 AND month = $2
	`

	var maxNumber int32
	if err := tx.QueryRowContext(ctx, query, roster.Year, roster.Month).Scan(&maxNumber); err != nil {
		return err
	}
	roster.SolutionNumber = maxNumber + 1

	query = `
		INSERT INTO rosters (year, month, solution_number, schedule_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{roster.Year, roster.Month, roster.SolutionNumber, scheduleData}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&roster.ID, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	for _, stat := range roster.Statistics {
		breakdown, err := json.Marshal(stat.Breakdown)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO roster_statistics (roster_id, employee_id, employee_name, total_shifts, shift_breakdown)
			VALUES ($1, $2, $3, $4, $5)
		`
		args := []any{roster.ID, stat.EmployeeID, stat.EmployeeName, stat.Total, breakdown}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetRostersByMonth lists the saved solutions for one month, metadata only.
func (r *Repository) GetRostersByMonth(year int, month int) ([]*domain.Roster, error) {
	query := `
		SELECT id, solution_number, created_at, version
		FROM rosters
		WHERE year = $1 AND month = $2
		ORDER BY solution_number
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := make([]*domain.Roster, 0)
	for rows.Next() {
		roster := &domain.Roster{
			Year:  year,
			Month: month,
		}
		dst := []any{&roster.ID, &roster.SolutionNumber, &roster.CreatedAt, &roster.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rosters = append(rosters, roster)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rosters, nil
}

func (r *Repository) GetRosterByID(id int64) (*domain.Roster, error) {
	query := `
		SELECT year, month, solution_number, schedule_data, created_at, version
		FROM rosters
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	roster := &domain.Roster{
		ID: id,
	}
	var scheduleData []byte

	dst := []any{&roster.Year, &roster.Month, &roster.SolutionNumber, &scheduleData, &roster.CreatedAt, &roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scheduleData, &roster.Days); err != nil {
		return nil, err
	}

	statistics, err := r.GetRosterStatistics(id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	roster.Statistics = statistics

	return roster, nil
}

func (r *Repository) GetRosterStatistics(rosterID int64) ([]domain.RosterStatistic, error) {
	query := `
		SELECT employee_id, employee_name, total_shifts, shift_breakdown
		FROM roster_statistics
		WHERE roster_id = $1
		ORDER BY employee_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statistics := make([]domain.RosterStatistic, 0)
	for rows.Next() {
		stat := domain.RosterStatistic{}
		var breakdown []byte

		dst := []any{&stat.EmployeeID, &stat.EmployeeName, &stat.Total, &breakdown}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(breakdown, &stat.Breakdown); err != nil {
			return nil, err
		}

		statistics = append(statistics, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return statistics, nil
}

func (r *Repository) DeleteRoster(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM roster_statistics WHERE roster_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `DELETE FROM rosters WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
