package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/pkg/metrics"
)

// approvedListCap bounds the public feedback listing.
const approvedListCap = 20

// FeedbackRepository handles the feedbacks collection.
type FeedbackRepository struct {
	col *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(FeedbacksCollection)}
}

// Create inserts a feedback document carrying the author's denormalized
// name/photo snapshot.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	fb.CreatedAt = now
	fb.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, fb)
	if err != nil {
		return wrapWriteErr(err)
	}
	fb.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// feedbackWithAuthor is the aggregation decode target for the public list.
type feedbackWithAuthor struct {
	models.Feedback `bson:",inline"`
	Author          []models.User `bson:"author,omitempty"`
}

// approvedPipeline selects published entries newest-first, caps the list
// and joins the author's live profile for the photo override.
func approvedPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isApproved": true}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: approvedListCap}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "author",
		}}},
	}
}

// Approved lists published feedback newest-first, capped at 20 entries.
// The author's live profile photo is joined in for display; the
// denormalized snapshot is the fallback when the live lookup resolves
// nothing (deleted user, no photo).
func (r *FeedbackRepository) Approved(ctx context.Context) ([]models.Feedback, error) {
	defer metrics.ObserveDBQuery("aggregate", time.Now())

	cur, err := r.col.Aggregate(ctx, approvedPipeline())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []feedbackWithAuthor{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]models.Feedback, 0, len(rows))
	for _, row := range rows {
		fb := row.Feedback
		if len(row.Author) > 0 {
			if ref := row.Author[0].ProfilePhoto.Ref(); ref != "" {
				fb.ProfilePhoto = ref
			}
		}
		out = append(out, fb)
	}
	return out, nil
}

// All lists every feedback document newest-first, unfiltered and uncapped.
func (r *FeedbackRepository) All(ctx context.Context) ([]models.Feedback, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Feedback{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve marks a feedback entry as published and returns it.
func (r *FeedbackRepository) Approve(ctx context.Context, id string) (*models.Feedback, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var fb models.Feedback
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&fb)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Delete removes a feedback entry.
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
