package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// TeacherProfile is the embedded sub-document on a teacher-role user.
// AverageRating and TotalReviews are denormalized from the reviews
// collection; TotalStudents from accepted requests. They are caches, not
// sources of truth, and only the aggregation writers touch them.
type TeacherProfile struct {
	Subjects        []string `bson:"subjects" json:"subjects"`
	Qualifications  string   `bson:"qualifications" json:"qualifications"`
	ExperienceYears int      `bson:"experience_years" json:"experienceYears"`
	HourlyRate      float64  `bson:"hourly_rate" json:"hourlyRate"`
	Bio             string   `bson:"bio" json:"bio"`
	Languages       []string `bson:"languages" json:"languages"`
	TeachingMode    string   `bson:"teaching_mode" json:"teachingMode"`
	AverageRating   float64  `bson:"average_rating" json:"averageRating"`
	TotalReviews    int      `bson:"total_reviews" json:"totalReviews"`
	TotalStudents   int      `bson:"total_students" json:"totalStudents"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash" json:"-"`
	Role           string             `bson:"role" json:"role"`
	IsActive       bool               `bson:"is_active" json:"isActive"`
	ResetToken     string             `bson:"reset_token,omitempty" json:"-"`
	TeacherProfile *TeacherProfile    `bson:"teacher_profile,omitempty" json:"teacherProfile,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

type Credential struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AuthResponse is what register and login hand back to the client.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
