package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/pkg/bind"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

// TransactionController handles recharge transactions. Creation is open to
// any authenticated user; listing across users and status changes are
// admin operations.
type TransactionController struct {
	store TransactionStore
}

func NewTransactionController(store TransactionStore) *TransactionController {
	return &TransactionController{store: store}
}

type createTransactionInput struct {
	PlanID        string  `json:"planId"        validate:"required"`
	MobileNumber  string  `json:"mobileNumber"  validate:"required,digits=10"`
	Provider      string  `json:"provider"      validate:"required,min=2,max=50"`
	Amount        float64 `json:"amount"        validate:"required,gte=1"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,in=UPI,CARD,NETBANKING"`
}

// Create records a new recharge attempt for the authenticated user. The
// transaction starts as PENDING with a server-generated reference id.
func (c *TransactionController) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return
	}

	var in createTransactionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		response.Unauthorized(w, "")
		return
	}
	planID, err := primitive.ObjectIDFromHex(in.PlanID)
	if err != nil {
		response.BadRequest(w, "Malformed plan id")
		return
	}

	txn := &models.Transaction{
		UserID:        userID,
		PlanID:        planID,
		MobileNumber:  in.MobileNumber,
		Provider:      in.Provider,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
	}

	if err := c.store.Create(r.Context(), txn); err != nil {
		writeErr(w, r, err, "")
		return
	}
	response.Created(w, txn)
}

// All returns every transaction with its user and plan embedded. Admin only.
func (c *TransactionController) All(w http.ResponseWriter, r *http.Request) {
	txns, err := c.store.All(r.Context())
	if err != nil {
		writeErr(w, r, err, "")
		return
	}
	response.Success(w, txns)
}

// ByUser returns the transaction history for one user, plans embedded.
func (c *TransactionController) ByUser(w http.ResponseWriter, r *http.Request) {
	txns, err := c.store.ByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeErr(w, r, err, "")
		return
	}
	response.Success(w, txns)
}

// Get returns a single transaction by id.
func (c *TransactionController) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := c.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err, "Transaction not found")
		return
	}
	response.Success(w, txn)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required,in=PENDING,SUCCESS,FAILED"`
}

// UpdateStatus moves a transaction through its lifecycle. Admin only.
func (c *TransactionController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in updateStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	txn, err := c.store.UpdateStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeErr(w, r, err, "Transaction not found")
		return
	}
	response.Success(w, txn)
}

// Delete removes a transaction. Admin only.
func (c *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err, "Transaction not found")
		return
	}
	response.Message(w, "Transaction deleted successfully")
}
