package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nordvik-omsorg/vaktliste/backend/internal/domain"
)

func (r *Repository) CreateShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (display_time, label, dual_department, partner_id, anchor_target)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{shift.DisplayTime, shift.Label, shift.DualDepartment, shift.PartnerID, shift.AnchorTarget}
	dst := []any{&shift.ID, &shift.CreatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// SetShiftPartner links a shift to the slot it shares a column with on the
// printed list. Linking runs after insertion because the pair's ids do not
// exist until both rows do.
func (r *Repository) SetShiftPartner(shiftID, partnerID int64) error {
	query := `
		UPDATE shifts SET partner_id = $1, version = version + 1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, partnerID, shiftID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllShifts() ([]*domain.Shift, error) {
	query := `
		SELECT id, display_time, label, dual_department, partner_id, anchor_target, created_at, version
		FROM shifts
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		var partnerID sql.NullInt64

		dst := []any{&shift.ID, &shift.DisplayTime, &shift.Label, &shift.DualDepartment, &partnerID, &shift.AnchorTarget, &shift.CreatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if partnerID.Valid {
			shift.PartnerID = &partnerID.Int64
		}

		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}
