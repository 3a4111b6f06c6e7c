// Package models defines the documents stored in MongoDB and their
// sanitized API views.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ProfilePhoto is the inline photo payload stored on the user document.
// Data holds the base64-encoded image; URL is set instead when the app
// runs with a disk/S3 photo backend.
type ProfilePhoto struct {
	Data        string `bson:"data,omitempty" json:"data,omitempty"`
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty"`
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
}

// IsZero reports whether no photo has been stored.
func (p ProfilePhoto) IsZero() bool {
	return p.Data == "" && p.URL == ""
}

// Ref renders the photo as a ready-to-display reference: the stored URL
// for disk-backed photos, a data: URI for inline ones, "" when absent.
func (p ProfilePhoto) Ref() string {
	if p.URL != "" {
		return p.URL
	}
	if p.Data != "" {
		return "data:" + p.ContentType + ";base64," + p.Data
	}
	return ""
}

// User is an account document. Email is stored lowercased; email and phone
// are globally unique.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Password     string             `bson:"password" json:"-"` // bcrypt hash, never serialised
	Role         string             `bson:"role" json:"role"`
	ProfilePhoto ProfilePhoto       `bson:"profilePhoto,omitempty" json:"-"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the sanitized view returned by the API: no password hash,
// photo rendered as a self-describing inline reference.
type PublicUser struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Role         string             `json:"role"`
	ProfilePhoto string             `json:"profilePhoto,omitempty"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Public returns the sanitized view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		ProfilePhoto: u.ProfilePhoto.Ref(),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
