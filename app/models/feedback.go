package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is customer feedback with a 1–5 rating. Name and ProfilePhoto
// are denormalized snapshots of the author taken at write time; the public
// listing joins the live profile photo and falls back to the snapshot.
type Feedback struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	ProfilePhoto string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Feedback     string             `bson:"feedback" json:"feedback"`
	Rating       int                `bson:"rating" json:"rating"`
	IsApproved   bool               `bson:"isApproved" json:"isApproved"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
