package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// stage returns the single operator of a pipeline stage.
func stage(t *testing.T, p mongo.Pipeline, i int) bson.E {
	t.Helper()
	require.Greater(t, len(p), i)
	require.Len(t, p[i], 1)
	return p[i][0]
}

func TestApprovedPipelineShape(t *testing.T) {
	p := approvedPipeline()
	require.Len(t, p, 4)

	match := stage(t, p, 0)
	assert.Equal(t, "$match", match.Key)
	assert.Equal(t, bson.M{"isApproved": true}, match.Value)

	sort := stage(t, p, 1)
	assert.Equal(t, "$sort", sort.Key)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sort.Value, "newest entries come first")

	limit := stage(t, p, 2)
	assert.Equal(t, "$limit", limit.Key)
	assert.EqualValues(t, 20, limit.Value, "the public list is capped")

	lookup := stage(t, p, 3)
	assert.Equal(t, "$lookup", lookup.Key)
	assert.Equal(t, bson.M{
		"from":         UsersCollection,
		"localField":   "userId",
		"foreignField": "_id",
		"as":           "author",
	}, lookup.Value)
}

func TestTxnPipelineShape(t *testing.T) {
	oid := primitive.NewObjectID()
	p := txnPipeline(bson.M{"userId": oid}, false)
	require.Len(t, p, 3)

	match := stage(t, p, 0)
	assert.Equal(t, "$match", match.Key)
	assert.Equal(t, bson.M{"userId": oid}, match.Value)

	sort := stage(t, p, 1)
	assert.Equal(t, "$sort", sort.Key)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sort.Value, "newest transactions come first")

	lookup := stage(t, p, 2)
	assert.Equal(t, "$lookup", lookup.Key)
	assert.Equal(t, bson.M{
		"from":         PlansCollection,
		"localField":   "planId",
		"foreignField": "_id",
		"as":           "plan",
	}, lookup.Value)
}

func TestTxnPipelineAddsUserJoinForAdminListing(t *testing.T) {
	p := txnPipeline(bson.M{}, true)
	require.Len(t, p, 4)

	lookup := stage(t, p, 3)
	assert.Equal(t, "$lookup", lookup.Key)
	assert.Equal(t, bson.M{
		"from":         UsersCollection,
		"localField":   "userId",
		"foreignField": "_id",
		"as":           "user",
	}, lookup.Value)
}
