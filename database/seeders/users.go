package seeders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
)

func init() {
	Register("admin user", seedAdminUser)
}

// seedAdminUser bootstraps the first ADMIN account so a fresh install has
// someone who can manage plans. Skipped when the account already exists.
// The default password is meant to be changed immediately.
func seedAdminUser(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(repositories.UsersCollection)

	err := col.FindOne(ctx, bson.M{"email": "admin@rechargehub.local"}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = col.InsertOne(ctx, models.User{
		Name:      "Administrator",
		Email:     "admin@rechargehub.local",
		Phone:     "0000000000",
		Password:  hash,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}
