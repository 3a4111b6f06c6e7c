package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/pkg/metrics"
)

// TransactionRepository handles the transactions collection.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(TransactionsCollection)}
}

// NewTransactionID generates a transaction identifier. The historical
// TXN_<unix-millis> shape is kept for clients, with a UUID fragment
// appended so same-millisecond creations cannot collide; the unique index
// on transactionId remains the loud safety net.
func NewTransactionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), suffix)
}

// Create inserts a transaction with a fresh identifier and PENDING status.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	txn.TransactionID = NewTransactionID()
	txn.Status = models.StatusPending
	txn.CreatedAt = now
	txn.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, txn)
	if err != nil {
		return wrapWriteErr(err)
	}
	txn.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// txnWithRefs is the aggregation decode target; $lookup produces arrays.
type txnWithRefs struct {
	models.Transaction `bson:",inline"`
	User               []models.User `bson:"user,omitempty"`
	Plan               []models.Plan `bson:"plan,omitempty"`
}

func (t txnWithRefs) detail(withUser bool) models.TransactionDetail {
	d := models.TransactionDetail{Transaction: t.Transaction}
	if withUser && len(t.User) > 0 {
		pub := t.User[0].Public()
		d.User = &pub
	}
	if len(t.Plan) > 0 {
		plan := t.Plan[0]
		d.Plan = &plan
	}
	return d
}

// All lists every transaction newest-first with the user and plan
// references expanded into embedded objects.
func (r *TransactionRepository) All(ctx context.Context) ([]models.TransactionDetail, error) {
	defer metrics.ObserveDBQuery("aggregate", time.Now())
	return r.aggregate(ctx, bson.M{}, true)
}

// ByUser lists one user's transactions newest-first, with the plan
// reference expanded.
func (r *TransactionRepository) ByUser(ctx context.Context, userID string) ([]models.TransactionDetail, error) {
	defer metrics.ObserveDBQuery("aggregate", time.Now())

	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return r.aggregate(ctx, bson.M{"userId": oid}, false)
}

// txnPipeline lists matching transactions newest-first with the plan
// reference joined in; the user join is added for the admin listing.
func txnPipeline(match bson.M, withUser bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         PlansCollection,
			"localField":   "planId",
			"foreignField": "_id",
			"as":           "plan",
		}}},
	}
	if withUser {
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}})
	}
	return pipeline
}

func (r *TransactionRepository) aggregate(ctx context.Context, match bson.M, withUser bool) ([]models.TransactionDetail, error) {
	cur, err := r.col.Aggregate(ctx, txnPipeline(match, withUser))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []txnWithRefs{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	details := make([]models.TransactionDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.detail(withUser))
	}
	return details, nil
}

// FindByID looks up a transaction by hex object id.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var txn models.Transaction
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&txn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateStatus sets the status field. Any of the three enum values is
// accepted in any order; there is no transition graph.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Transaction, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var txn models.Transaction
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&txn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
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
