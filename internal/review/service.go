package review

import (
	"context"
	"errors"
	"fmt"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewService owns the review ledger and the rating aggregator. Every
// mutation recomputes the teacher's average rating and review count
// inline, so the derived fields are consistent within the same request.
type ReviewService struct {
	repo   ReviewStore
	users  auth.UserStore
	logger *zap.Logger
}

func NewReviewService(repo *ReviewRepository, users *auth.UserRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, users: users, logger: logger}
}

func NewReviewServiceWith(repo ReviewStore, users auth.UserStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, users: users, logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, student *auth.User, teacherIDHex string, req CreateReviewRequest) (*Review, error) {
	teacherID, err := primitive.ObjectIDFromHex(teacherIDHex)
	if err != nil {
		return nil, response.Validation("invalid teacher id")
	}

	teacher, err := s.users.FindByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	if teacher == nil || !teacher.IsTeacher() {
		return nil, response.NotFound("teacher not found")
	}

	review := &Review{
		StudentID:   student.ID,
		TeacherID:   teacher.ID,
		StudentName: student.Name,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, ErrDuplicateReview) {
			return nil, response.Conflict("you have already reviewed this teacher")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.Recompute(ctx, teacher.ID); err != nil {
		return nil, err
	}
	s.logger.Info("review created",
		zap.String("review_id", review.ID.Hex()),
		zap.String("teacher_id", teacher.ID.Hex()),
		zap.Int("rating", review.Rating),
	)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, owner *auth.User, reviewIDHex string, req UpdateReviewRequest) (*Review, error) {
	review, err := s.findOwned(ctx, owner, reviewIDHex)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	if err := s.Recompute(ctx, review.TeacherID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the document outright; the aggregator run afterwards
// drops the teacher back to a zero average once no reviews remain.
func (s *ReviewService) Delete(ctx context.Context, owner *auth.User, reviewIDHex string) error {
	review, err := s.findOwned(ctx, owner, reviewIDHex)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return s.Recompute(ctx, review.TeacherID)
}

func (s *ReviewService) findOwned(ctx context.Context, owner *auth.User, reviewIDHex string) (*Review, error) {
	id, err := primitive.ObjectIDFromHex(reviewIDHex)
	if err != nil {
		return nil, response.Validation("invalid review id")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, response.NotFound("review not found")
	}
	if review.StudentID != owner.ID {
		return nil, response.Forbidden("review belongs to another student")
	}
	return review, nil
}

// Recompute derives the teacher's average rating and review count from
// the active reviews and writes them back onto the identity store. The
// average is 0 when no reviews remain.
func (s *ReviewService) Recompute(ctx context.Context, teacherID primitive.ObjectID) error {
	ratings, err := s.repo.RatingsForTeacher(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	average := 0.0
	if len(ratings) > 0 {
		average, err = stats.Mean(ratings)
		if err != nil {
			return fmt.Errorf("compute mean: %w", err)
		}
	}

	if err := s.users.UpdateTeacherRating(ctx, teacherID, average, len(ratings)); err != nil {
		s.logger.Error("rating writeback failed",
			zap.String("teacher_id", teacherID.Hex()),
			zap.Float64("average", average),
			zap.Error(err),
		)
		return fmt.Errorf("update teacher rating: %w", err)
	}
	return nil
}

func (s *ReviewService) ListForTeacher(ctx context.Context, teacherIDHex string, limit int64) ([]*Review, error) {
	teacherID, err := primitive.ObjectIDFromHex(teacherIDHex)
	if err != nil {
		return nil, response.Validation("invalid teacher id")
	}
	reviews, err := s.repo.FindByTeacher(ctx, teacherID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
