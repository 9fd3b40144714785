package notify

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier discards all notifications. Used in tests and when mailing
// is disabled entirely.
type NoopNotifier struct{}

func (NoopNotifier) EnrolmentGranted(ctx context.Context, rec *model.EnrolmentRecord, instance *model.CourseInstance) {
}
