package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/pkg/bind"
	"github.com/shashiranjanraj/rechargehub/pkg/cache"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

// planCacheTTL bounds staleness of the public plan listing.
const planCacheTTL = time.Minute

// PlanController handles the recharge-plan catalogue. Reads are public,
// writes are admin-only (enforced at the router).
type PlanController struct {
	store PlanStore
	cache *cache.Cache
}

func NewPlanController(store PlanStore, c *cache.Cache) *PlanController {
	return &PlanController{store: store, cache: c}
}

func planListKey(provider string) string {
	if provider == "" {
		return "plans:all"
	}
	return "plans:provider:" + provider
}

// List returns all plans, optionally filtered by ?provider=. Served
// through the read-through cache; adds no correctness dependency on Redis.
func (c *PlanController) List(w http.ResponseWriter, r *http.Request) {
	provider := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("provider")))
	key := planListKey(provider)

	var plans []models.Plan
	if c.cache.Get(r.Context(), key, &plans) {
		response.Success(w, plans)
		return
	}

	plans, err := c.store.All(r.Context(), provider)
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	_ = c.cache.Set(r.Context(), key, plans, planCacheTTL)
	response.Success(w, plans)
}

// Get returns one plan by id.
func (c *PlanController) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := c.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err, "Plan not found")
		return
	}
	response.Success(w, plan)
}

type createPlanInput struct {
	Provider string  `json:"provider" validate:"required,min=2,max=50"`
	PlanName string  `json:"planName" validate:"required,min=1,max=100"`
	Price    float64 `json:"price"    validate:"required,gte=1"`
	Data     string  `json:"data"     validate:"required"`
	Validity string  `json:"validity" validate:"required"`
	AddOns   string  `json:"addOns"   validate:"nullable,max=500"`
}

// Create adds a plan to the catalogue. Admin only.
func (c *PlanController) Create(w http.ResponseWriter, r *http.Request) {
	var in createPlanInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	plan := &models.Plan{
		Provider: in.Provider,
		PlanName: in.PlanName,
		Price:    in.Price,
		Data:     in.Data,
		Validity: in.Validity,
		AddOns:   in.AddOns,
	}
	if err := c.store.Create(r.Context(), plan); err != nil {
		writeErr(w, r, err, "")
		return
	}

	c.invalidate(r, plan.Provider)
	response.Created(w, plan)
}

type updatePlanInput struct {
	Provider *string  `json:"provider" validate:"min=2,max=50"`
	PlanName *string  `json:"planName" validate:"min=1,max=100"`
	Price    *float64 `json:"price"    validate:"gte=1"`
	Data     *string  `json:"data"`
	Validity *string  `json:"validity"`
	AddOns   *string  `json:"addOns"   validate:"max=500"`
}

// Update applies a partial update to a plan. Admin only.
func (c *PlanController) Update(w http.ResponseWriter, r *http.Request) {
	var in updatePlanInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	set := bson.M{}
	if in.Provider != nil {
		set["provider"] = *in.Provider
	}
	if in.PlanName != nil {
		set["planName"] = *in.PlanName
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Data != nil {
		set["data"] = *in.Data
	}
	if in.Validity != nil {
		set["validity"] = *in.Validity
	}
	if in.AddOns != nil {
		set["addOns"] = *in.AddOns
	}
	if len(set) == 0 {
		response.BadRequest(w, "Nothing to update")
		return
	}

	plan, err := c.store.Update(r.Context(), chi.URLParam(r, "id"), set)
	if err != nil {
		writeErr(w, r, err, "Plan not found")
		return
	}

	c.invalidate(r, plan.Provider)
	response.Success(w, plan)
}

// Delete removes a plan. Admin only.
func (c *PlanController) Delete(w http.ResponseWriter, r *http.Request) {
	plan, err := c.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err, "Plan not found")
		return
	}
	if err := c.store.Delete(r.Context(), plan.ID.Hex()); err != nil {
		writeErr(w, r, err, "Plan not found")
		return
	}

	c.invalidate(r, plan.Provider)
	response.Message(w, "Plan deleted successfully")
}

// invalidate drops the cached listings touched by a catalogue mutation.
// Listings for a plan's previous provider expire by TTL.
func (c *PlanController) invalidate(r *http.Request, provider string) {
	_ = c.cache.Del(r.Context(), planListKey(""), planListKey(strings.ToLower(provider)))
}
