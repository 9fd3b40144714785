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

var _ repository.CourseInstanceRepository = (*instanceRepo)(nil)

type instanceRepo struct{ pool *pgxpool.Pool }

func NewInstanceRepo(pool *pgxpool.Pool) *instanceRepo {
	return &instanceRepo{pool: pool}
}

func (r *instanceRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.CourseInstance, error) {
	const q = `SELECT id, course_id, name, cost_minor, currency, role_id, enrol_period, max_enrolled, enabled FROM course_instances WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	ci := &model.CourseInstance{}
	var periodSec int64
	if err := row.Scan(&ci.ID, &ci.CourseID, &ci.Name, &ci.CostMinor, &ci.Currency, &ci.RoleID, &periodSec, &ci.MaxEnrolled, &ci.Enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	ci.EnrolPeriod = secondsToDuration(periodSec)
	return ci, nil
}

func (r *instanceRepo) Save(ctx context.Context, tx repository.Tx, ci *model.CourseInstance) error {
	const q = `
INSERT INTO course_instances (
  id, course_id, name, cost_minor, currency, role_id, enrol_period, max_enrolled, enabled
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  course_id=$2, name=$3, cost_minor=$4, currency=$5, role_id=$6, enrol_period=$7, max_enrolled=$8, enabled=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, ci.ID, ci.CourseID, ci.Name, ci.CostMinor, ci.Currency, ci.RoleID, durationToSeconds(ci.EnrolPeriod), ci.MaxEnrolled, ci.Enabled)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
