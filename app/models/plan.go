package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a browsable recharge plan. Provider is stored lowercased
// ("jio", "airtel", "vi") and indexed.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Provider  string             `bson:"provider" json:"provider"`
	PlanName  string             `bson:"planName" json:"planName"`
	Price     float64            `bson:"price" json:"price"`
	Data      string             `bson:"data" json:"data"`
	Validity  string             `bson:"validity" json:"validity"`
	AddOns    string             `bson:"addOns,omitempty" json:"addOns,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
