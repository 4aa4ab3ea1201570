package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TutorHub/internal/auth"
	"TutorHub/internal/config"
	"TutorHub/pkg/response"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RequestService enforces the request workflow: one request per
// (student, teacher) pair, and a one-way pending -> accepted/rejected
// transition that only the addressed teacher may perform.
type RequestService struct {
	repo   RequestStore
	users  auth.UserStore
	mailer auth.Mailer
	logger *zap.Logger
}

func NewRequestService(repo *RequestRepository, users *auth.UserRepository, email *config.EmailService, logger *zap.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, mailer: email, logger: logger}
}

func NewRequestServiceWith(repo RequestStore, users auth.UserStore, mailer auth.Mailer, logger *zap.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, mailer: mailer, logger: logger}
}

func (s *RequestService) Send(ctx context.Context, student *auth.User, req SendRequest) (*StudentRequest, error) {
	teacherID, err := primitive.ObjectIDFromHex(req.TeacherID)
	if err != nil {
		return nil, response.Validation("invalid teacher id")
	}

	teacher, err := s.users.FindByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	if teacher == nil || !teacher.IsTeacher() || !teacher.IsActive {
		return nil, response.NotFound("teacher not found")
	}

	studentRequest := &StudentRequest{
		StudentID:    student.ID,
		TeacherID:    teacher.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		TeacherName:  teacher.Name,
		Subject:      req.Subject,
		Message:      req.Message,
	}
	if err := s.repo.Create(ctx, studentRequest); err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			return nil, response.Conflict("you have already sent a request to this teacher")
		}
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("request created",
		zap.String("request_id", studentRequest.ID.Hex()),
		zap.String("student_id", student.ID.Hex()),
		zap.String("teacher_id", teacher.ID.Hex()),
	)
	return studentRequest, nil
}

func (s *RequestService) Respond(ctx context.Context, teacher *auth.User, requestID, decision string) (*StudentRequest, error) {
	var status string
	switch decision {
	case "accept":
		status = StatusAccepted
	case "reject":
		status = StatusRejected
	default:
		return nil, response.Validation("decision must be accept or reject")
	}

	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, response.Validation("invalid request id")
	}

	studentRequest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find request: %w", err)
	}
	if studentRequest == nil {
		return nil, response.NotFound("request not found")
	}
	if studentRequest.TeacherID != teacher.ID {
		return nil, response.Forbidden("request belongs to another teacher")
	}

	respondedAt := time.Now().UTC()
	matched, err := s.repo.RespondIfPending(ctx, id, status, respondedAt)
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	if !matched {
		return nil, response.Conflict("request has already been responded to")
	}
	studentRequest.Status = status
	studentRequest.RespondedAt = &respondedAt

	if status == StatusAccepted {
		s.refreshTotalStudents(ctx, teacher.ID)
	}
	s.notifyStudent(studentRequest, status)

	s.logger.Info("request responded",
		zap.String("request_id", id.Hex()),
		zap.String("teacher_id", teacher.ID.Hex()),
		zap.String("status", status),
	)
	return studentRequest, nil
}

// refreshTotalStudents recomputes the teacher's accepted-student count.
// The response already committed, so a failed writeback is logged rather
// than propagated.
func (s *RequestService) refreshTotalStudents(ctx context.Context, teacherID primitive.ObjectID) {
	count, err := s.repo.CountAcceptedByTeacher(ctx, teacherID)
	if err == nil {
		err = s.users.UpdateTotalStudents(ctx, teacherID, int(count))
	}
	if err != nil {
		s.logger.Error("failed to refresh total students",
			zap.String("teacher_id", teacherID.Hex()),
			zap.Error(err),
		)
	}
}

func (s *RequestService) notifyStudent(req *StudentRequest, status string) {
	subject := "Your tutoring request was " + status
	body := fmt.Sprintf("<p>Hi %s, %s has %s your request for %s.</p>",
		req.StudentName, req.TeacherName, status, req.Subject)
	if err := s.mailer.SendEmail(req.StudentEmail, subject, body); err != nil {
		s.logger.Warn("response notification failed",
			zap.String("request_id", req.ID.Hex()),
			zap.Error(err),
		)
	}
}

func (s *RequestService) ListMine(ctx context.Context, student *auth.User) ([]*StudentRequest, error) {
	requests, err := s.repo.FindByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("list student requests: %w", err)
	}
	return requests, nil
}

func (s *RequestService) ListReceived(ctx context.Context, teacher *auth.User, status string) ([]*StudentRequest, error) {
	if status != "" && status != StatusPending && status != StatusAccepted && status != StatusRejected {
		return nil, response.Validation("invalid status filter")
	}
	requests, err := s.repo.FindByTeacher(ctx, teacher.ID, status)
	if err != nil {
		return nil, fmt.Errorf("list received requests: %w", err)
	}
	return requests, nil
}

func (s *RequestService) ListAcceptedStudents(ctx context.Context, teacher *auth.User) ([]AcceptedStudent, error) {
	requests, err := s.repo.FindAcceptedByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("list accepted requests: %w", err)
	}
	students := make([]AcceptedStudent, 0, len(requests))
	for _, req := range requests {
		students = append(students, AcceptedStudent{
			StudentID:  req.StudentID,
			Name:       req.StudentName,
			Email:      req.StudentEmail,
			Subject:    req.Subject,
			AcceptedAt: req.RespondedAt,
		})
	}
	return students, nil
}
