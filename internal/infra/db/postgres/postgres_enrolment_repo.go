package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"remita-course-enrolment/internal/domain"
	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/repository"
)

var _ repository.EnrolmentRepository = (*enrolmentRepo)(nil)

type enrolmentRepo struct{ pool *pgxpool.Pool }

func NewEnrolmentRepo(pool *pgxpool.Pool) *enrolmentRepo {
	return &enrolmentRepo{pool: pool}
}

const enrolmentColumns = `id, user_id, course_id, instance_id, payment_reference, gateway_ref, amount_minor, currency, role_id, status, time_start, time_end, time_updated`

// Insert relies on the UNIQUE (user_id, instance_id) key: a concurrent
// duplicate simply reports inserted=false instead of erroring.
func (r *enrolmentRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.EnrolmentRecord) (bool, error) {
	const q = `
INSERT INTO enrolments (
  id, user_id, course_id, instance_id, payment_reference, gateway_ref, amount_minor, currency, role_id, status, time_start, time_end, time_updated
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (user_id, instance_id) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q, rec.ID, rec.UserID, rec.CourseID, rec.InstanceID, rec.PaymentReference, rec.GatewayRef, rec.AmountMinor, rec.Currency, rec.RoleID, rec.Status, rec.TimeStart, rec.TimeEnd, rec.TimeUpdated)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *enrolmentRepo) IsEnrolled(ctx context.Context, tx repository.Tx, userID, instanceID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM enrolments WHERE user_id=$1 AND instance_id=$2 AND status='active');`
	row, err := pickRow(ctx, r.pool, tx, q, userID, instanceID)
	if err != nil {
		return false, err
	}
	var enrolled bool
	if err := row.Scan(&enrolled); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return enrolled, nil
}

func (r *enrolmentRepo) CountByInstance(ctx context.Context, tx repository.Tx, instanceID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM enrolments WHERE instance_id=$1 AND status='active';`
	row, err := pickRow(ctx, r.pool, tx, q, instanceID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *enrolmentRepo) ListByInstance(ctx context.Context, tx repository.Tx, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + enrolmentColumns + ` FROM enrolments WHERE instance_id=$1 ORDER BY time_start DESC OFFSET $2 LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, instanceID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnrolments(rows)
}

func (r *enrolmentRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.EnrolmentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + enrolmentColumns + ` FROM enrolments ORDER BY time_start DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnrolments(rows)
}

func scanEnrolments(rows pgx.Rows) ([]*model.EnrolmentRecord, error) {
	var out []*model.EnrolmentRecord
	for rows.Next() {
		rec := new(model.EnrolmentRecord)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.CourseID, &rec.InstanceID, &rec.PaymentReference, &rec.GatewayRef, &rec.AmountMinor, &rec.Currency, &rec.RoleID, &rec.Status, &rec.TimeStart, &rec.TimeEnd, &rec.TimeUpdated); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, rec)
	}
	return out, nil
}
