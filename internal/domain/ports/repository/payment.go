package repository

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
)

type PaymentAttemptRepository interface {
	Save(ctx context.Context, tx Tx, attempt *model.PaymentAttempt) error
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.PaymentAttempt, error)
	// UpdateStatus flips the attempt status; the attempt itself stays
	// immutable otherwise.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.AttemptStatus) error
}
