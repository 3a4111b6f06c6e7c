package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/rechargehub/app/models"
)

func TestTransactionCreateStartsPending(t *testing.T) {
	store := &fakeTransactionStore{}
	c := NewTransactionController(store)
	userID := primitive.NewObjectID()

	req := jsonRequest(t, http.MethodPost, "/transactions", map[string]interface{}{
		"planId":        primitive.NewObjectID().Hex(),
		"mobileNumber":  "9876543210",
		"provider":      "jio",
		"amount":        239.0,
		"paymentMethod": "UPI",
	})
	rec := httptest.NewRecorder()
	c.Create(rec, asUser(req, userID, models.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.txns, 1)
	txn := store.txns[0]
	assert.Equal(t, models.StatusPending, txn.Status)
	assert.Equal(t, userID, txn.UserID)
	assert.Regexp(t, `^TXN_\d+_[0-9a-f]{8}$`, txn.TransactionID)
}

func TestTransactionCreateIgnoresBodyUserID(t *testing.T) {
	store := &fakeTransactionStore{}
	c := NewTransactionController(store)
	userID := primitive.NewObjectID()

	req := jsonRequest(t, http.MethodPost, "/transactions", map[string]interface{}{
		"planId":        primitive.NewObjectID().Hex(),
		"userId":        primitive.NewObjectID().Hex(),
		"mobileNumber":  "9876543210",
		"provider":      "jio",
		"amount":        239.0,
		"paymentMethod": "CARD",
	})
	rec := httptest.NewRecorder()
	c.Create(rec, asUser(req, userID, models.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.txns, 1)
	assert.Equal(t, userID, store.txns[0].UserID, "owner comes from the token, not the payload")
}

func TestTransactionCreateValidation(t *testing.T) {
	c := NewTransactionController(&fakeTransactionStore{})

	cases := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"bad payment method", map[string]interface{}{
			"planId": primitive.NewObjectID().Hex(), "mobileNumber": "9876543210",
			"provider": "jio", "amount": 239.0, "paymentMethod": "CASH",
		}, "paymentMethod"},
		{"short mobile number", map[string]interface{}{
			"planId": primitive.NewObjectID().Hex(), "mobileNumber": "12345",
			"provider": "jio", "amount": 239.0, "paymentMethod": "UPI",
		}, "mobileNumber"},
		{"missing amount", map[string]interface{}{
			"planId": primitive.NewObjectID().Hex(), "mobileNumber": "9876543210",
			"provider": "jio", "paymentMethod": "UPI",
		}, "amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/transactions", tc.body)
			rec := httptest.NewRecorder()
			c.Create(rec, asUser(req, primitive.NewObjectID(), models.RoleUser))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeResponse(t, rec).Errors, tc.field)
		})
	}
}

func TestTransactionCreateRejectsMalformedPlanID(t *testing.T) {
	c := NewTransactionController(&fakeTransactionStore{})

	req := jsonRequest(t, http.MethodPost, "/transactions", map[string]interface{}{
		"planId":        "not-an-object-id",
		"mobileNumber":  "9876543210",
		"provider":      "jio",
		"amount":        239.0,
		"paymentMethod": "UPI",
	})
	rec := httptest.NewRecorder()
	c.Create(rec, asUser(req, primitive.NewObjectID(), models.RoleUser))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Malformed plan id", decodeResponse(t, rec).Message)
}

func TestTransactionByUserReturnsOnlyOwnHistory(t *testing.T) {
	store := &fakeTransactionStore{}
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store.txns = []*models.Transaction{
		{ID: primitive.NewObjectID(), UserID: mine, Amount: 239},
		{ID: primitive.NewObjectID(), UserID: other, Amount: 299},
		{ID: primitive.NewObjectID(), UserID: mine, Amount: 149},
	}
	c := NewTransactionController(store)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/transactions/user/x", nil), "userId", mine.Hex())
	rec := httptest.NewRecorder()
	c.ByUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []models.TransactionDetail
	require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &out))
	require.Len(t, out, 2)
	for _, txn := range out {
		assert.Equal(t, mine, txn.UserID)
	}
}

func TestTransactionUpdateStatus(t *testing.T) {
	store := &fakeTransactionStore{}
	txn := &models.Transaction{ID: primitive.NewObjectID(), Status: models.StatusPending}
	store.txns = []*models.Transaction{txn}
	c := NewTransactionController(store)

	req := jsonRequest(t, http.MethodPut, "/transactions/x/status", map[string]interface{}{
		"status": "SUCCESS",
	})
	rec := httptest.NewRecorder()
	c.UpdateStatus(rec, withURLParam(req, "id", txn.ID.Hex()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusSuccess, txn.Status)
}

func TestTransactionUpdateStatusRejectsUnknownValue(t *testing.T) {
	c := NewTransactionController(&fakeTransactionStore{})

	req := jsonRequest(t, http.MethodPut, "/transactions/x/status", map[string]interface{}{
		"status": "REFUNDED",
	})
	rec := httptest.NewRecorder()
	c.UpdateStatus(rec, withURLParam(req, "id", primitive.NewObjectID().Hex()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Errors, "status")
}

func TestTransactionDeleteNotFound(t *testing.T) {
	c := NewTransactionController(&fakeTransactionStore{})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/transactions/x", nil), "id", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	c.Delete(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found", decodeResponse(t, rec).Message)
}
