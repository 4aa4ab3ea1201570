package review

import (
	"context"
	"net/http"
	"testing"
	"time"

	"TutorHub/internal/auth"
	"TutorHub/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	users    map[primitive.ObjectID]*auth.User
	averages map[primitive.ObjectID]float64
	counts   map[primitive.ObjectID]int
}

func newFakeUserStore(users ...*auth.User) *fakeUserStore {
	store := &fakeUserStore{
		users:    make(map[primitive.ObjectID]*auth.User),
		averages: make(map[primitive.ObjectID]float64),
		counts:   make(map[primitive.ObjectID]int),
	}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeUserStore) Create(_ context.Context, user *auth.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*auth.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) Update(_ context.Context, user *auth.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateTeacherRating(_ context.Context, teacherID primitive.ObjectID, average float64, count int) error {
	f.averages[teacherID] = average
	f.counts[teacherID] = count
	return nil
}

func (f *fakeUserStore) UpdateTotalStudents(_ context.Context, _ primitive.ObjectID, _ int) error {
	return nil
}

func (f *fakeUserStore) UpdateTeacherProfile(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}

func (f *fakeUserStore) FindTeachers(_ context.Context, _ auth.TeacherFilter) ([]*auth.User, int64, error) {
	return nil, 0, nil
}

type fakeReviewStore struct {
	reviews map[primitive.ObjectID]*Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[primitive.ObjectID]*Review)}
}

func (f *fakeReviewStore) Create(_ context.Context, review *Review) error {
	for _, existing := range f.reviews {
		if existing.StudentID == review.StudentID && existing.TeacherID == review.TeacherID {
			return ErrDuplicateReview
		}
	}
	review.ID = primitive.NewObjectID()
	review.IsActive = true
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewStore) FindByID(_ context.Context, id primitive.ObjectID) (*Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	copied := *review
	return &copied, nil
}

func (f *fakeReviewStore) Update(_ context.Context, review *Review) error {
	stored, ok := f.reviews[review.ID]
	if !ok {
		return nil
	}
	stored.Rating = review.Rating
	stored.Comment = review.Comment
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewStore) RatingsForTeacher(_ context.Context, teacherID primitive.ObjectID) ([]float64, error) {
	var ratings []float64
	for _, review := range f.reviews {
		if review.TeacherID == teacherID && review.IsActive {
			ratings = append(ratings, float64(review.Rating))
		}
	}
	return ratings, nil
}

func (f *fakeReviewStore) FindByTeacher(_ context.Context, teacherID primitive.ObjectID, _ int64) ([]*Review, error) {
	var out []*Review
	for _, review := range f.reviews {
		if review.TeacherID == teacherID && review.IsActive {
			out = append(out, review)
		}
	}
	return out, nil
}

func newStudent(name string) *auth.User {
	return &auth.User{ID: primitive.NewObjectID(), Name: name, Role: auth.RoleStudent, IsActive: true}
}

func newTeacher(name string) *auth.User {
	return &auth.User{
		ID: primitive.NewObjectID(), Name: name, Role: auth.RoleTeacher, IsActive: true,
		TeacherProfile: &auth.TeacherProfile{},
	}
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *response.Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestCreateReviewAggregates(t *testing.T) {
	student := newStudent("Alice")
	teacher := newTeacher("Bob")
	users := newFakeUserStore(student, teacher)
	service := NewReviewServiceWith(newFakeReviewStore(), users, zap.NewNop())

	created, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)
	assert.True(t, created.IsActive)
	assert.Equal(t, 4.0, users.averages[teacher.ID])
	assert.Equal(t, 1, users.counts[teacher.ID])
}

func TestCreateReviewTeacherNotFound(t *testing.T) {
	student := newStudent("Alice")
	service := NewReviewServiceWith(newFakeReviewStore(), newFakeUserStore(student), zap.NewNop())

	_, err := service.Create(context.Background(), student, primitive.NewObjectID().Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
}

func TestCreateReviewDuplicatePair(t *testing.T) {
	student := newStudent("Alice")
	teacher := newTeacher("Bob")
	users := newFakeUserStore(student, teacher)
	service := NewReviewServiceWith(newFakeReviewStore(), users, zap.NewNop())

	_, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 5, Comment: "changed my mind, even better",
	})
	assert.Equal(t, http.StatusConflict, apiStatus(t, err))
	assert.Equal(t, 1, users.counts[teacher.ID])
}

func TestUpdateReviewRecomputesAverage(t *testing.T) {
	student := newStudent("Alice")
	teacher := newTeacher("Bob")
	users := newFakeUserStore(student, teacher)
	service := NewReviewServiceWith(newFakeReviewStore(), users, zap.NewNop())

	created, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)

	rating := 2
	updated, err := service.Update(context.Background(), student, created.ID.Hex(), UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "very patient teacher", updated.Comment)
	assert.Equal(t, 2.0, users.averages[teacher.ID])
	assert.Equal(t, 1, users.counts[teacher.ID])
}

func TestUpdateReviewPartialComment(t *testing.T) {
	student := newStudent("Alice")
	teacher := newTeacher("Bob")
	users := newFakeUserStore(student, teacher)
	service := NewReviewServiceWith(newFakeReviewStore(), users, zap.NewNop())

	created, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)

	comment := "updated after more lessons"
	updated, err := service.Update(context.Background(), student, created.ID.Hex(), UpdateReviewRequest{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, comment, updated.Comment)
	assert.Equal(t, 4.0, users.averages[teacher.ID])
}

func TestDeleteLastReviewResetsAverage(t *testing.T) {
	student := newStudent("Alice")
	teacher := newTeacher("Bob")
	users := newFakeUserStore(student, teacher)
	store := newFakeReviewStore()
	service := NewReviewServiceWith(store, users, zap.NewNop())

	created, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), student, created.ID.Hex()))
	assert.Empty(t, store.reviews)
	assert.Equal(t, 0.0, users.averages[teacher.ID])
	assert.Equal(t, 0, users.counts[teacher.ID])
}

func TestAverageOverSeveralReviews(t *testing.T) {
	teacher := newTeacher("Bob")
	users := newFakeUserStore(teacher)
	service := NewReviewServiceWith(newFakeReviewStore(), users, zap.NewNop())

	for _, rating := range []int{5, 4, 3} {
		student := newStudent("Student")
		users.users[student.ID] = student
		_, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
			Rating: rating, Comment: "long enough comment",
		})
		require.NoError(t, err)
	}
	assert.InDelta(t, 4.0, users.averages[teacher.ID], 1e-9)
	assert.Equal(t, 3, users.counts[teacher.ID])
}

func TestOnlyOwnerMayMutate(t *testing.T) {
	student := newStudent("Alice")
	intruder := newStudent("Mallory")
	teacher := newTeacher("Bob")
	service := NewReviewServiceWith(newFakeReviewStore(), newFakeUserStore(student, intruder, teacher), zap.NewNop())

	created, err := service.Create(context.Background(), student, teacher.ID.Hex(), CreateReviewRequest{
		Rating: 4, Comment: "very patient teacher",
	})
	require.NoError(t, err)

	rating := 1
	_, err = service.Update(context.Background(), intruder, created.ID.Hex(), UpdateReviewRequest{Rating: &rating})
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	err = service.Delete(context.Background(), intruder, created.ID.Hex())
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))
}

func TestMutateMissingReview(t *testing.T) {
	student := newStudent("Alice")
	service := NewReviewServiceWith(newFakeReviewStore(), newFakeUserStore(student), zap.NewNop())

	rating := 3
	_, err := service.Update(context.Background(), student, primitive.NewObjectID().Hex(), UpdateReviewRequest{Rating: &rating})
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))

	err = service.Delete(context.Background(), student, "garbage-id")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}
