package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods.
const (
	PaymentUPI        = "UPI"
	PaymentCard       = "CARD"
	PaymentNetBanking = "NETBANKING"
)

// Transaction statuses. Status is freely settable by an admin between any
// of the three values; there is no transition-order enforcement and no
// payment-gateway verification.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Transaction records a plan purchase. UserID and PlanID are references,
// not embedded documents; deleting a user or plan orphans the reference.
type Transaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID        primitive.ObjectID `bson:"planId" json:"planId"`
	MobileNumber  string             `bson:"mobileNumber" json:"mobileNumber"`
	Provider      string             `bson:"provider" json:"provider"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Status        string             `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TransactionDetail is a transaction with its references expanded for the
// admin listing and per-user history views.
type TransactionDetail struct {
	Transaction `bson:",inline"`
	User        *PublicUser `bson:"-" json:"user,omitempty"`
	Plan        *Plan       `bson:"plan,omitempty" json:"plan,omitempty"`
}
