package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"TutorHub/internal/config"
	"TutorHub/pkg/response"

	"go.uber.org/zap"
)

// Mailer is the best-effort notification dispatcher. Callers log failures
// and never let them fail the triggering operation.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type UserService struct {
	repo   UserStore
	mailer Mailer
	logger *zap.Logger
}

func NewUserService(repo *UserRepository, email *config.EmailService, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, mailer: email, logger: logger}
}

// NewUserServiceWith wires explicit implementations, used by other
// services and tests.
func NewUserServiceWith(repo UserStore, mailer Mailer, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, mailer: mailer, logger: logger}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	if existing != nil {
		return nil, response.Conflict("email already registered")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if user.Role == RoleTeacher {
		user.TeacherProfile = &TeacherProfile{
			Subjects:  []string{},
			Languages: []string{},
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, response.Conflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateJWT(user, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.mailer.SendEmail(user.Email, "Welcome to TutorHub",
		fmt.Sprintf("<p>Hi %s, your %s account is ready.</p>", user.Name, user.Role)); err != nil {
		s.logger.Warn("welcome email failed",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role),
	)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, cred Credential) (*AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(cred.Email)))
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return nil, response.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, response.Unauthorized("account is deactivated")
	}

	token, err := GenerateJWT(user, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}

// ForgotPassword always succeeds from the caller's point of view so the
// endpoint cannot be used to probe for registered addresses.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("find by email: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil
	}

	resetToken, err := GenerateJWT(user, 15*time.Minute)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	user.ResetToken = resetToken
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendEmail(user.Email, "Password Reset",
		fmt.Sprintf("<p>Use this token to reset your password: %s</p>", resetToken)); err != nil {
		s.logger.Warn("reset email failed",
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := ValidateJWT(token)
	if err != nil {
		return response.Unauthorized("invalid or expired token")
	}

	user, err := s.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		return fmt.Errorf("find by email: %w", err)
	}
	if user == nil || user.ResetToken != token {
		return response.Unauthorized("invalid or expired token")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	return s.repo.Update(ctx, user)
}

// Deactivate flips the soft flag; there is no hard delete.
func (s *UserService) Deactivate(ctx context.Context, user *User) error {
	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.logger.Info("account deactivated", zap.String("user_id", user.ID.Hex()))
	return nil
}
