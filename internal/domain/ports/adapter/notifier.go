package adapter

import (
	"context"

	"remita-course-enrolment/internal/domain/model"
)

// Notifier dispatches enrolment notifications to the student, the course
// teacher and site admins. Delivery is best-effort and explicitly outside
// the transactional guarantee of the grant: implementations must not fail
// the enrolment.
type Notifier interface {
	EnrolmentGranted(ctx context.Context, rec *model.EnrolmentRecord, instance *model.CourseInstance)
}
