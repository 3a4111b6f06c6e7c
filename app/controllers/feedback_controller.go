package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/pkg/bind"
	"github.com/shashiranjanraj/rechargehub/pkg/cache"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

const (
	feedbackCacheKey = "feedbacks:approved"
	feedbackCacheTTL = time.Minute
)

// FeedbackController handles customer feedback. Submission requires an
// authenticated user, the approved listing is public, and moderation is
// admin-only.
type FeedbackController struct {
	store FeedbackStore
	users UserStore
	cache *cache.Cache
	cfg   *config.Config
}

func NewFeedbackController(store FeedbackStore, users UserStore, c *cache.Cache, cfg *config.Config) *FeedbackController {
	return &FeedbackController{store: store, users: users, cache: c, cfg: cfg}
}

type createFeedbackInput struct {
	Name         string `json:"name"         validate:"nullable,max=100"`
	ProfilePhoto string `json:"profilePhoto" validate:"nullable"`
	Feedback     string `json:"feedback"     validate:"required,min=3,max=1000"`
	Rating       int    `json:"rating"       validate:"required,gte=1,lte=5"`
}

// Create records feedback for the authenticated user. Name and photo are
// stored as snapshots; when the caller omits the name it is copied from
// the live profile. Visibility follows the auto-approve setting.
func (c *FeedbackController) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return
	}

	var in createFeedbackInput
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

	// Name and photo are snapshotted independently: either one omitted
	// falls back to the caller's live profile.
	name, photo := in.Name, in.ProfilePhoto
	if name == "" || photo == "" {
		user, err := c.users.FindByID(r.Context(), claims.UserID)
		if err != nil {
			writeErr(w, r, err, "User not found")
			return
		}
		if name == "" {
			name = user.Name
		}
		if photo == "" {
			photo = user.ProfilePhoto.Ref()
		}
	}

	fb := &models.Feedback{
		UserID:       userID,
		Name:         name,
		ProfilePhoto: photo,
		Feedback:     in.Feedback,
		Rating:       in.Rating,
		IsApproved:   c.cfg.FeedbackAutoApprove,
	}
	if err := c.store.Create(r.Context(), fb); err != nil {
		writeErr(w, r, err, "")
		return
	}

	if fb.IsApproved {
		_ = c.cache.Del(r.Context(), feedbackCacheKey)
	}
	response.Created(w, fb)
}

// Approved returns the most recent approved feedback for the public site.
func (c *FeedbackController) Approved(w http.ResponseWriter, r *http.Request) {
	var items []models.Feedback
	if c.cache.Get(r.Context(), feedbackCacheKey, &items) {
		response.Success(w, items)
		return
	}

	items, err := c.store.Approved(r.Context())
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	_ = c.cache.Set(r.Context(), feedbackCacheKey, items, feedbackCacheTTL)
	response.Success(w, items)
}

// All returns every feedback entry, approved or not. Admin only.
func (c *FeedbackController) All(w http.ResponseWriter, r *http.Request) {
	items, err := c.store.All(r.Context())
	if err != nil {
		writeErr(w, r, err, "")
		return
	}
	response.Success(w, items)
}

// Approve marks a feedback entry as publicly visible. Admin only.
func (c *FeedbackController) Approve(w http.ResponseWriter, r *http.Request) {
	fb, err := c.store.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err, "Feedback not found")
		return
	}

	_ = c.cache.Del(r.Context(), feedbackCacheKey)
	response.Success(w, fb)
}

// Delete removes a feedback entry. Admin only.
func (c *FeedbackController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err, "Feedback not found")
		return
	}

	_ = c.cache.Del(r.Context(), feedbackCacheKey)
	response.Message(w, "Feedback deleted successfully")
}
