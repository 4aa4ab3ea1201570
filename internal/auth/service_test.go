package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"TutorHub/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) Update(_ context.Context, user *User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateTeacherRating(_ context.Context, _ primitive.ObjectID, _ float64, _ int) error {
	return nil
}

func (f *fakeUserStore) UpdateTotalStudents(_ context.Context, _ primitive.ObjectID, _ int) error {
	return nil
}

func (f *fakeUserStore) UpdateTeacherProfile(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}

func (f *fakeUserStore) FindTeachers(_ context.Context, _ TeacherFilter) ([]*User, int64, error) {
	return nil, 0, nil
}

type fakeMailer struct {
	sent []string
	fail bool
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	if f.fail {
		return errors.New("mail gateway down")
	}
	f.sent = append(f.sent, to)
	return nil
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *response.Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestRegisterStudent(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	mailer := &fakeMailer{}
	service := NewUserServiceWith(newFakeUserStore(), mailer, zap.NewNop())

	result, err := service.Register(context.Background(), RegisterRequest{
		Name: "Alice", Email: "Alice@Example.com", Password: "hunter22", Role: RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, RoleStudent, result.User.Role)
	assert.True(t, result.User.IsActive)
	assert.Nil(t, result.User.TeacherProfile)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
}

func TestRegisterTeacherInitializesProfile(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	service := NewUserServiceWith(newFakeUserStore(), &fakeMailer{}, zap.NewNop())

	result, err := service.Register(context.Background(), RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "hunter22", Role: RoleTeacher,
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.TeacherProfile)
	assert.Zero(t, result.User.TeacherProfile.AverageRating)
	assert.Zero(t, result.User.TeacherProfile.TotalReviews)
	assert.Zero(t, result.User.TeacherProfile.TotalStudents)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	service := NewUserServiceWith(newFakeUserStore(), &fakeMailer{}, zap.NewNop())

	_, err := service.Register(context.Background(), RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: RoleStudent,
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterRequest{
		Name: "Other Alice", Email: "ALICE@example.com", Password: "hunter23", Role: RoleStudent,
	})
	assert.Equal(t, http.StatusConflict, apiStatus(t, err))
}

func TestRegisterSucceedsWhenEmailFails(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	service := NewUserServiceWith(newFakeUserStore(), &fakeMailer{fail: true}, zap.NewNop())

	result, err := service.Register(context.Background(), RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	store := newFakeUserStore()
	service := NewUserServiceWith(store, &fakeMailer{}, zap.NewNop())

	registered, err := service.Register(context.Background(), RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: RoleStudent,
	})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), Credential{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = service.Login(context.Background(), Credential{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	_, err = service.Login(context.Background(), Credential{Email: "nobody@example.com", Password: "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	require.NoError(t, service.Deactivate(context.Background(), registered.User))
	_, err = service.Login(context.Background(), Credential{Email: "alice@example.com", Password: "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	store := newFakeUserStore()
	mailer := &fakeMailer{}
	service := NewUserServiceWith(store, mailer, zap.NewNop())

	_, err := service.Register(context.Background(), RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: RoleStudent,
	})
	require.NoError(t, err)

	// Unknown addresses succeed silently.
	require.NoError(t, service.ForgotPassword(context.Background(), "nobody@example.com"))

	require.NoError(t, service.ForgotPassword(context.Background(), "alice@example.com"))
	user, err := store.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ResetToken)

	err = service.ResetPassword(context.Background(), "bogus-token", "newpassword")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))

	require.NoError(t, service.ResetPassword(context.Background(), user.ResetToken, "newpassword"))
	assert.Empty(t, user.ResetToken)

	_, err = service.Login(context.Background(), Credential{Email: "alice@example.com", Password: "newpassword"})
	require.NoError(t, err)
	_, err = service.Login(context.Background(), Credential{Email: "alice@example.com", Password: "hunter22"})
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}
