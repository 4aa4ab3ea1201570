package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one student's rating of a teacher, unique per
// (student, teacher) pair. Helpful and Reported are schema-only counters
// carried for the clients; no business logic touches them.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"student" json:"studentId"`
	TeacherID   primitive.ObjectID `bson:"teacher" json:"teacherId"`
	StudentName string             `bson:"student_name" json:"studentName"`
	Rating      int                `bson:"rating" json:"rating"`
	Comment     string             `bson:"comment" json:"comment"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Helpful     int                `bson:"helpful" json:"helpful"`
	Reported    int                `bson:"reported" json:"reported"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=10,max=500"`
}

// UpdateReviewRequest carries a partial edit; omitted fields keep their
// prior values.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=10,max=500"`
}
