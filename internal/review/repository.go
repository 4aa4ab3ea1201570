package review

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateReview = errors.New("review already exists for this pair")

// ReviewStore is the review ledger.
type ReviewStore interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	RatingsForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]float64, error)
	FindByTeacher(ctx context.Context, teacherID primitive.ObjectID, limit int64) ([]*Review, error)
}

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	collection := db.Collection("reviews")
	_, _ = collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "student", Value: 1}, {Key: "teacher", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &ReviewRepository{collection: collection}
}

func (r *ReviewRepository) Create(ctx context.Context, review *Review) error {
	review.IsActive = true
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt
	res, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	var review Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *Review) error {
	review.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"rating":     review.Rating,
		"comment":    review.Comment,
		"updated_at": review.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": review.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("review not found")
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("review not found")
	}
	return nil
}

// RatingsForTeacher returns the rating values of every active review for
// the teacher. The aggregator owns the math; this just feeds it.
func (r *ReviewRepository) RatingsForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]float64, error) {
	filter := bson.M{"teacher": teacherID, "is_active": true}
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		Rating int `bson:"rating"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ratings := make([]float64, 0, len(docs))
	for _, doc := range docs {
		ratings = append(ratings, float64(doc.Rating))
	}
	return ratings, nil
}

func (r *ReviewRepository) FindByTeacher(ctx context.Context, teacherID primitive.ObjectID, limit int64) ([]*Review, error) {
	filter := bson.M{"teacher": teacherID, "is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var reviews []*Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
