package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseEnrollmentModel links a paying (or granted) student to a course.
// The unique pair makes webhook-driven enrollment idempotent: replayed
// completed-payment events insert with ON CONFLICT DO NOTHING.
type CourseEnrollmentModel struct {
	EnrollmentID       uuid.UUID `gorm:"column:enrollment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	EnrollmentUserID   string    `gorm:"column:enrollment_user_id;type:varchar(64);not null;uniqueIndex:uq_enrollment_user_course" json:"enrollment_user_id"`
	EnrollmentCourseID uuid.UUID `gorm:"column:enrollment_course_id;type:uuid;not null;uniqueIndex:uq_enrollment_user_course" json:"enrollment_course_id"`

	EnrollmentCreatedAt time.Time `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
}

func (CourseEnrollmentModel) TableName() string {
	return "course_enrollments"
}
