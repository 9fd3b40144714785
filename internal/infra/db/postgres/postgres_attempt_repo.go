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

var _ repository.PaymentAttemptRepository = (*attemptRepo)(nil)

type attemptRepo struct{ pool *pgxpool.Pool }

func NewAttemptRepo(pool *pgxpool.Pool) *attemptRepo {
	return &attemptRepo{pool: pool}
}

func (r *attemptRepo) Save(ctx context.Context, tx repository.Tx, a *model.PaymentAttempt) error {
	const q = `
INSERT INTO payment_attempts (
  id, reference, user_id, course_id, instance_id, amount_minor, currency, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Reference, a.UserID, a.CourseID, a.InstanceID, a.AmountMinor, a.Currency, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *attemptRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentAttempt, error) {
	q := `SELECT id, reference, user_id, course_id, instance_id, amount_minor, currency, status, created_at, updated_at FROM payment_attempts WHERE reference=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, reference)
	if err != nil {
		return nil, err
	}

	a := &model.PaymentAttempt{}
	if err := row.Scan(&a.ID, &a.Reference, &a.UserID, &a.CourseID, &a.InstanceID, &a.AmountMinor, &a.Currency, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *attemptRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.AttemptStatus) error {
	const q = `UPDATE payment_attempts SET status=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
