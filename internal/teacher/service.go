package teacher

import (
	"context"
	"fmt"

	"TutorHub/internal/auth"
	"TutorHub/internal/review"
	"TutorHub/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// recentReviewLimit caps how many reviews ride along on a public profile.
const recentReviewLimit = 10

// TeacherDetail is the public profile payload: the teacher document with
// its derived rating fields plus the most recent reviews.
type TeacherDetail struct {
	Teacher *auth.User       `json:"teacher"`
	Reviews []*review.Review `json:"reviews"`
}

// UpdateProfileRequest is a partial edit of the teacher profile. Derived
// fields (averageRating, totalReviews, totalStudents) are not editable.
type UpdateProfileRequest struct {
	Subjects        *[]string `json:"subjects"`
	Qualifications  *string   `json:"qualifications"`
	ExperienceYears *int      `json:"experienceYears" validate:"omitempty,min=0"`
	HourlyRate      *float64  `json:"hourlyRate" validate:"omitempty,min=0"`
	Bio             *string   `json:"bio" validate:"omitempty,max=1000"`
	Languages       *[]string `json:"languages"`
	TeachingMode    *string   `json:"teachingMode" validate:"omitempty,oneof=online in-person hybrid"`
}

type TeacherService struct {
	users   auth.UserStore
	reviews review.ReviewStore
	logger  *zap.Logger
}

func NewTeacherService(users *auth.UserRepository, reviews *review.ReviewRepository, logger *zap.Logger) *TeacherService {
	return &TeacherService{users: users, reviews: reviews, logger: logger}
}

func NewTeacherServiceWith(users auth.UserStore, reviews review.ReviewStore, logger *zap.Logger) *TeacherService {
	return &TeacherService{users: users, reviews: reviews, logger: logger}
}

func (s *TeacherService) List(ctx context.Context, filter auth.TeacherFilter) ([]*auth.User, int64, error) {
	teachers, total, err := s.users.FindTeachers(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, total, nil
}

func (s *TeacherService) Get(ctx context.Context, idHex string) (*TeacherDetail, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, response.Validation("invalid teacher id")
	}

	teacher, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	if teacher == nil || !teacher.IsTeacher() || !teacher.IsActive {
		return nil, response.NotFound("teacher not found")
	}

	reviews, err := s.reviews.FindByTeacher(ctx, id, recentReviewLimit)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return &TeacherDetail{Teacher: teacher, Reviews: reviews}, nil
}

func (s *TeacherService) UpdateProfile(ctx context.Context, owner *auth.User, req UpdateProfileRequest) (*auth.User, error) {
	fields := bson.M{}
	if req.Subjects != nil {
		fields["subjects"] = *req.Subjects
	}
	if req.Qualifications != nil {
		fields["qualifications"] = *req.Qualifications
	}
	if req.ExperienceYears != nil {
		fields["experience_years"] = *req.ExperienceYears
	}
	if req.HourlyRate != nil {
		fields["hourly_rate"] = *req.HourlyRate
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Languages != nil {
		fields["languages"] = *req.Languages
	}
	if req.TeachingMode != nil {
		fields["teaching_mode"] = *req.TeachingMode
	}
	if len(fields) == 0 {
		return nil, response.Validation("no profile fields to update")
	}

	if err := s.users.UpdateTeacherProfile(ctx, owner.ID, fields); err != nil {
		return nil, fmt.Errorf("update teacher profile: %w", err)
	}
	s.logger.Info("teacher profile updated", zap.String("teacher_id", owner.ID.Hex()))

	updated, err := s.users.FindByID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("reload teacher: %w", err)
	}
	return updated, nil
}
