// Package routes mounts the public API onto the router.
package routes

import (
	"github.com/shashiranjanraj/rechargehub/app/controllers"
	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/metrics"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
	"github.com/shashiranjanraj/rechargehub/pkg/router"
)

// Controllers bundles the resource handlers RegisterAPI mounts.
type Controllers struct {
	Users        *controllers.UserController
	Plans        *controllers.PlanController
	Transactions *controllers.TransactionController
	Feedbacks    *controllers.FeedbackController
}

// RegisterAPI mounts the resource routes plus the operational endpoints.
func RegisterAPI(r *router.Router, c Controllers, tokens *auth.TokenManager, cfg *config.Config) {
	authed := middleware.Authenticate(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	r.Get("/metrics", "metrics", metrics.Handler())
	if cfg.PhotoDisk == "local" {
		r.Static("/uploads", cfg.StorageLocalRoot)
	}

	users := r.Group("/users")
	users.Post("/register", "users.register", c.Users.Register)
	users.Post("/login", "users.login", c.Users.Login)
	// Historical alias for register kept for old clients.
	users.Post("/", "users.create", c.Users.Register)

	users.Get("/profile", "users.profile", c.Users.Profile, authed)
	users.Post("/upload-photo", "users.upload_photo", c.Users.UploadPhoto, authed, middleware.Upload("photo"))
	users.Get("/", "users.index", c.Users.List, authed, adminOnly)
	users.Delete("/{id}", "users.destroy", c.Users.Delete, authed, adminOnly)
	users.Get("/{id}", "users.show", c.Users.Get, authed)
	users.Put("/{id}", "users.update", c.Users.Update, authed)

	plans := r.Group("/plans")
	plans.Get("/", "plans.index", c.Plans.List)
	plans.Get("/{id}", "plans.show", c.Plans.Get)
	plans.Post("/", "plans.store", c.Plans.Create, authed, adminOnly)
	plans.Put("/{id}", "plans.update", c.Plans.Update, authed, adminOnly)
	plans.Delete("/{id}", "plans.destroy", c.Plans.Delete, authed, adminOnly)

	txns := r.Group("/transactions", authed)
	txns.Post("/", "transactions.store", c.Transactions.Create)
	txns.Get("/user/{userId}", "transactions.by_user", c.Transactions.ByUser)
	txns.Get("/", "transactions.index", c.Transactions.All, adminOnly)
	txns.Get("/{id}", "transactions.show", c.Transactions.Get)
	txns.Put("/{id}", "transactions.update_status", c.Transactions.UpdateStatus, adminOnly)
	txns.Delete("/{id}", "transactions.destroy", c.Transactions.Delete, adminOnly)

	feedbacks := r.Group("/feedbacks")
	feedbacks.Get("/approved", "feedbacks.approved", c.Feedbacks.Approved)
	feedbacks.Post("/", "feedbacks.store", c.Feedbacks.Create, authed)
	feedbacks.Get("/", "feedbacks.index", c.Feedbacks.All, authed, adminOnly)
	feedbacks.Put("/{id}/approve", "feedbacks.approve", c.Feedbacks.Approve, authed, adminOnly)
	feedbacks.Delete("/{id}", "feedbacks.destroy", c.Feedbacks.Delete, authed, adminOnly)
}
