package repository

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
)

// EnrolmentRepository is the ledger. Insert must be guarded by a uniqueness
// constraint on (user_id, instance_id) so that concurrent verified
// callbacks for the same pair result in exactly one row.
type EnrolmentRepository interface {
	// Insert writes the record and reports whether a row was actually
	// created; inserted=false means an enrolment already existed.
	Insert(ctx context.Context, tx Tx, rec *model.EnrolmentRecord) (inserted bool, err error)
	IsEnrolled(ctx context.Context, tx Tx, userID, instanceID int64) (bool, error)
	CountByInstance(ctx context.Context, tx Tx, instanceID int64) (int, error)
	ListByInstance(ctx context.Context, tx Tx, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.EnrolmentRecord, error)
}

type CourseInstanceRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.CourseInstance, error)
	Save(ctx context.Context, tx Tx, instance *model.CourseInstance) error
}
