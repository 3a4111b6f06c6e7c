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

func seedPlan(store *fakePlanStore, provider, name string, price float64) *models.Plan {
	p := &models.Plan{
		ID:       primitive.NewObjectID(),
		Provider: provider,
		PlanName: name,
		Price:    price,
		Data:     "2GB/day",
		Validity: "28 days",
	}
	store.plans = append(store.plans, p)
	return p
}

func TestPlanListFiltersByProvider(t *testing.T) {
	store := &fakePlanStore{}
	seedPlan(store, "jio", "Smart 239", 239)
	seedPlan(store, "airtel", "Freedom 299", 299)
	c := NewPlanController(store, nil)

	rec := httptest.NewRecorder()
	c.List(rec, httptest.NewRequest(http.MethodGet, "/plans?provider=Jio", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var plans []models.Plan
	require.NoError(t, json.Unmarshal(decodeResponse(t, rec).Data, &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "jio", plans[0].Provider)
}

func TestPlanListEmptyIsArray(t *testing.T) {
	c := NewPlanController(&fakePlanStore{}, nil)

	rec := httptest.NewRecorder()
	c.List(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeResponse(t, rec).Data))
}

func TestPlanCreate(t *testing.T) {
	store := &fakePlanStore{}
	c := NewPlanController(store, nil)

	req := jsonRequest(t, http.MethodPost, "/plans", map[string]interface{}{
		"provider": "jio",
		"planName": "Smart 239",
		"price":    239.0,
		"data":     "1.5GB/day",
		"validity": "28 days",
	})
	rec := httptest.NewRecorder()
	c.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.plans, 1)
	assert.Equal(t, "Smart 239", store.plans[0].PlanName)
}

func TestPlanCreateValidatesRequiredFields(t *testing.T) {
	c := NewPlanController(&fakePlanStore{}, nil)

	req := jsonRequest(t, http.MethodPost, "/plans", map[string]interface{}{
		"provider": "jio",
	})
	rec := httptest.NewRecorder()
	c.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "planName")
	assert.Contains(t, body.Errors, "price")
}

func TestPlanUpdatePartial(t *testing.T) {
	store := &fakePlanStore{}
	p := seedPlan(store, "jio", "Smart 239", 239)
	c := NewPlanController(store, nil)

	req := jsonRequest(t, http.MethodPut, "/plans/x", map[string]interface{}{
		"price": 249.0,
	})
	rec := httptest.NewRecorder()
	c.Update(rec, withURLParam(req, "id", p.ID.Hex()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 249.0, p.Price)
	assert.Equal(t, "Smart 239", p.PlanName)
}

func TestPlanUpdateNotFound(t *testing.T) {
	c := NewPlanController(&fakePlanStore{}, nil)

	req := jsonRequest(t, http.MethodPut, "/plans/x", map[string]interface{}{"price": 249.0})
	rec := httptest.NewRecorder()
	c.Update(rec, withURLParam(req, "id", primitive.NewObjectID().Hex()))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Plan not found", decodeResponse(t, rec).Message)
}

func TestPlanDelete(t *testing.T) {
	store := &fakePlanStore{}
	p := seedPlan(store, "jio", "Smart 239", 239)
	c := NewPlanController(store, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/plans/x", nil), "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	c.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Plan deleted successfully", decodeResponse(t, rec).Message)
	assert.Empty(t, store.plans)
}
