package usecase

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/repository"
)

var _ AuditUseCase = (*auditUC)(nil)

// AuditUseCase exposes read-only ledger views for the admin API.
type AuditUseCase interface {
	ListByInstance(ctx context.Context, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*model.EnrolmentRecord, error)
}

type auditUC struct {
	enrolments repository.EnrolmentRepository
}

func NewAuditUseCase(enrolments repository.EnrolmentRepository) *auditUC {
	return &auditUC{enrolments: enrolments}
}

func (u *auditUC) ListByInstance(ctx context.Context, instanceID int64, offset, limit int) ([]*model.EnrolmentRecord, error) {
	return u.enrolments.ListByInstance(ctx, nil, instanceID, offset, limit)
}

func (u *auditUC) ListRecent(ctx context.Context, limit int) ([]*model.EnrolmentRecord, error) {
	return u.enrolments.ListRecent(ctx, nil, limit)
}
