// Package repositories implements the persistence layer over MongoDB.
// Every repository receives the *mongo.Database handle by constructor
// injection; none of them reads a global connection.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection        = "users"
	PlansCollection        = "plans"
	TransactionsCollection = "transactions"
	FeedbacksCollection    = "feedbacks"
	LogsCollection         = "logs"
)

// Sentinel errors mapped to HTTP statuses at the controller boundary.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate value for a unique field")
	ErrInvalidID = errors.New("malformed object id")
)

// parseID converts a hex string into an ObjectID or fails with ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// wrapWriteErr translates driver errors into repository sentinels.
func wrapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// EnsureIndexes creates the indexes the data model relies on: unique email
// and phone on users, unique transactionId on transactions, plus the
// supporting query indexes. Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("repositories: users indexes: %w", err)
	}

	_, err = db.Collection(PlansCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "provider", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("repositories: plans indexes: %w", err)
	}

	_, err = db.Collection(TransactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("repositories: transactions indexes: %w", err)
	}

	_, err = db.Collection(FeedbacksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("repositories: feedbacks indexes: %w", err)
	}

	return nil
}
