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

// UserRepository handles the users collection.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository binds a repository to the injected database handle.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(UsersCollection)}
}

// Create inserts a new user. Email is lowercased before the write; a
// colliding email or phone surfaces as ErrDuplicate via the unique indexes.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return wrapWriteErr(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail looks up a user by case-insensitive email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrPhone returns a user matching either value, for the
// pre-registration duplicate check.
func (r *UserRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(email)},
		bson.M{"phone": phone},
	}}

	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks up a user by hex object id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// All returns every user, newest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the given field set and returns the updated document.
// Email updates are lowercased to keep the uniqueness invariant meaningful.
func (r *UserRepository) Update(ctx context.Context, id string, set bson.M) (*models.User, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if email, ok := set["email"].(string); ok {
		set["email"] = strings.ToLower(email)
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapWriteErr(err)
	}
	return &user, nil
}

// UpdatePhoto stores the profile photo payload on the user document.
func (r *UserRepository) UpdatePhoto(ctx context.Context, id string, photo models.ProfilePhoto) (*models.User, error) {
	return r.Update(ctx, id, bson.M{"profilePhoto": photo})
}

// Delete removes a user. Dependent transactions and feedback are not
// cascade-deleted; their references orphan.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
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
