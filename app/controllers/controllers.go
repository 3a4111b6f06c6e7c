// Package controllers implements the HTTP resource handlers. Controllers
// are stateless: they validate a payload, delegate to an injected store,
// and shape the JSON response. Every failure is mapped to an HTTP status
// at this boundary.
package controllers

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/pkg/logger"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

// UserStore is the persistence surface the user controller depends on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, set bson.M) (*models.User, error)
	UpdatePhoto(ctx context.Context, id string, photo models.ProfilePhoto) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// PlanStore is the persistence surface the plan controller depends on.
type PlanStore interface {
	Create(ctx context.Context, plan *models.Plan) error
	All(ctx context.Context, provider string) ([]models.Plan, error)
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	Update(ctx context.Context, id string, set bson.M) (*models.Plan, error)
	Delete(ctx context.Context, id string) error
}

// TransactionStore is the persistence surface the transaction controller
// depends on.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	All(ctx context.Context) ([]models.TransactionDetail, error)
	ByUser(ctx context.Context, userID string) ([]models.TransactionDetail, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// FeedbackStore is the persistence surface the feedback controller
// depends on.
type FeedbackStore interface {
	Create(ctx context.Context, fb *models.Feedback) error
	Approved(ctx context.Context) ([]models.Feedback, error)
	All(ctx context.Context) ([]models.Feedback, error)
	Approve(ctx context.Context, id string) (*models.Feedback, error)
	Delete(ctx context.Context, id string) error
}

// writeErr maps repository errors onto the HTTP taxonomy: duplicates and
// malformed ids are client errors, missing documents are 404, anything
// else is an unexpected 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case errors.Is(err, repositories.ErrDuplicate):
		response.BadRequest(w, "Duplicate value for a unique field")
	case errors.Is(err, repositories.ErrInvalidID):
		response.BadRequest(w, "Malformed id")
	default:
		logger.WithCtx(r.Context()).Error("unexpected error", "error", err, "path", r.URL.Path)
		response.Internal(w, "")
	}
}
