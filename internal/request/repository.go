package request

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateRequest = errors.New("request already exists for this pair")

// RequestStore is the request ledger.
type RequestStore interface {
	Create(ctx context.Context, req *StudentRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*StudentRequest, error)
	RespondIfPending(ctx context.Context, id primitive.ObjectID, status string, respondedAt time.Time) (bool, error)
	FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*StudentRequest, error)
	FindByTeacher(ctx context.Context, teacherID primitive.ObjectID, status string) ([]*StudentRequest, error)
	FindAcceptedByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]*StudentRequest, error)
	CountAcceptedByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
}

type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	collection := db.Collection("student_requests")
	_, _ = collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "student", Value: 1}, {Key: "teacher", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &RequestRepository{collection: collection}
}

func (r *RequestRepository) Create(ctx context.Context, req *StudentRequest) error {
	req.Status = StatusPending
	req.CreatedAt = time.Now().UTC()
	res, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRequest
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*StudentRequest, error) {
	var req StudentRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// RespondIfPending performs the pending -> resolved transition as a single
// conditional update. A matched count of zero on a live document means the
// request was already responded to, so two concurrent responses cannot
// both win.
func (r *RequestRepository) RespondIfPending(ctx context.Context, id primitive.ObjectID, status string, respondedAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": StatusPending}
	update := bson.M{"$set": bson.M{"status": status, "responded_at": respondedAt}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *RequestRepository) FindByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*StudentRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"student": studentID}, opts)
	if err != nil {
		return nil, err
	}
	var requests []*StudentRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) FindByTeacher(ctx context.Context, teacherID primitive.ObjectID, status string) ([]*StudentRequest, error) {
	filter := bson.M{"teacher": teacherID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var requests []*StudentRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) FindAcceptedByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]*StudentRequest, error) {
	filter := bson.M{"teacher": teacherID, "status": StatusAccepted}
	opts := options.Find().SetSort(bson.D{{Key: "responded_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var requests []*StudentRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) CountAcceptedByTeacher(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"teacher": teacherID, "status": StatusAccepted})
}
