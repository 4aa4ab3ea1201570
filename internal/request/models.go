package request

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// StudentRequest is one outreach from a student to a teacher. At most one
// exists per (student, teacher) pair, and status only ever moves
// pending -> accepted or pending -> rejected.
type StudentRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    primitive.ObjectID `bson:"student" json:"studentId"`
	TeacherID    primitive.ObjectID `bson:"teacher" json:"teacherId"`
	StudentName  string             `bson:"student_name" json:"studentName"`
	StudentEmail string             `bson:"student_email" json:"studentEmail"`
	TeacherName  string             `bson:"teacher_name" json:"teacherName"`
	Subject      string             `bson:"subject" json:"subject"`
	Message      string             `bson:"message" json:"message"`
	Status       string             `bson:"status" json:"status"`
	RespondedAt  *time.Time         `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

func (r *StudentRequest) IsPending() bool {
	return r.Status == StatusPending
}

type SendRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required,max=500"`
}

// AcceptedStudent is one row of a teacher's "my students" view.
type AcceptedStudent struct {
	StudentID  primitive.ObjectID `json:"studentId"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Subject    string             `json:"subject"`
	AcceptedAt *time.Time         `json:"acceptedAt,omitempty"`
}
