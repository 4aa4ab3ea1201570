package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateEmail = errors.New("email already registered")

// TeacherFilter narrows the public teacher directory.
type TeacherFilter struct {
	Subject      string
	TeachingMode string
	MinRating    float64
	Page         int64
	Limit        int64
}

// UserStore is the identity store. The aggregation writers
// (UpdateTeacherRating, UpdateTotalStudents) perform targeted updates and
// never touch the rest of the document.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateTeacherRating(ctx context.Context, teacherID primitive.ObjectID, average float64, count int) error
	UpdateTotalStudents(ctx context.Context, teacherID primitive.ObjectID, count int) error
	UpdateTeacherProfile(ctx context.Context, teacherID primitive.ObjectID, fields bson.M) error
	FindTeachers(ctx context.Context, filter TeacherFilter) ([]*User, int64, error)
}

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	collection := db.Collection("users")
	_, _ = collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &UserRepository{collection: collection}
}

func (r *UserRepository) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepository) UpdateTeacherRating(ctx context.Context, teacherID primitive.ObjectID, average float64, count int) error {
	update := bson.M{
		"$set": bson.M{
			"teacher_profile.average_rating": average,
			"teacher_profile.total_reviews":  count,
			"updated_at":                     time.Now().UTC(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": teacherID, "role": RoleTeacher}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("teacher not found")
	}
	return nil
}

func (r *UserRepository) UpdateTotalStudents(ctx context.Context, teacherID primitive.ObjectID, count int) error {
	update := bson.M{
		"$set": bson.M{
			"teacher_profile.total_students": count,
			"updated_at":                     time.Now().UTC(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": teacherID, "role": RoleTeacher}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("teacher not found")
	}
	return nil
}

func (r *UserRepository) UpdateTeacherProfile(ctx context.Context, teacherID primitive.ObjectID, fields bson.M) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for key, value := range fields {
		set["teacher_profile."+key] = value
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": teacherID, "role": RoleTeacher}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("teacher not found")
	}
	return nil
}

func (r *UserRepository) FindTeachers(ctx context.Context, filter TeacherFilter) ([]*User, int64, error) {
	query := bson.M{"role": RoleTeacher, "is_active": true}
	if filter.Subject != "" {
		query["teacher_profile.subjects"] = filter.Subject
	}
	if filter.TeachingMode != "" {
		query["teacher_profile.teaching_mode"] = filter.TeachingMode
	}
	if filter.MinRating > 0 {
		query["teacher_profile.average_rating"] = bson.M{"$gte": filter.MinRating}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 50 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "teacher_profile.average_rating", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var teachers []*User
	if err := cursor.All(ctx, &teachers); err != nil {
		return nil, 0, err
	}
	return teachers, total, nil
}
