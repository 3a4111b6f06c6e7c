package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/pkg/metrics"
)

// PlanRepository handles the plans collection.
type PlanRepository struct {
	col *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{col: db.Collection(PlansCollection)}
}

// Create inserts a new plan. Provider is lowercased on write.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	plan.Provider = strings.ToLower(plan.Provider)
	plan.CreatedAt = now
	plan.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, plan)
	if err != nil {
		return wrapWriteErr(err)
	}
	plan.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// All lists plans, optionally filtered by provider.
func (r *PlanRepository) All(ctx context.Context, provider string) ([]models.Plan, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	filter := bson.M{}
	if provider != "" {
		filter["provider"] = strings.ToLower(provider)
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	plans := []models.Plan{}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// FindByID looks up a plan by hex object id.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var plan models.Plan
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update applies the given field set and returns the updated plan.
func (r *PlanRepository) Update(ctx context.Context, id string, set bson.M) (*models.Plan, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if provider, ok := set["provider"].(string); ok {
		set["provider"] = strings.ToLower(provider)
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var plan models.Plan
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return &plan, nil
}

// Delete removes a plan. Existing transactions keep their dangling planId.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
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
