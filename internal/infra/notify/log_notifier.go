package notify

import (
	"context"

	"github.com/rs/zerolog"

	"remita-course-enrolment/internal/domain/model"
	"remita-course-enrolment/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*LogNotifier)(nil)

// LogNotifier emits enrolment events as structured log lines. Message
// delivery to students/teachers/admins is handled by an external system
// consuming these events; nothing here can fail the grant.
type LogNotifier struct {
	log          *zerolog.Logger
	mailStudents bool
	mailTeachers bool
	mailAdmins   bool
}

func NewLogNotifier(logger *zerolog.Logger, mailStudents, mailTeachers, mailAdmins bool) *LogNotifier {
	return &LogNotifier{
		log:          logger,
		mailStudents: mailStudents,
		mailTeachers: mailTeachers,
		mailAdmins:   mailAdmins,
	}
}

func (n *LogNotifier) EnrolmentGranted(ctx context.Context, rec *model.EnrolmentRecord, instance *model.CourseInstance) {
	ev := n.log.Info().
		Str("event", "enrolment_granted").
		Int64("user_id", rec.UserID).
		Int64("course_id", rec.CourseID).
		Int64("instance_id", rec.InstanceID).
		Str("instance_name", instance.Name).
		Bool("notify_student", n.mailStudents).
		Bool("notify_teacher", n.mailTeachers).
		Bool("notify_admins", n.mailAdmins)
	ev.Msg("enrolment notification dispatched")
}
