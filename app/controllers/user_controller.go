package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/bind"
	"github.com/shashiranjanraj/rechargehub/pkg/logger"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
	"github.com/shashiranjanraj/rechargehub/pkg/storage"
)

// UserController handles registration, login, profile, and user admin.
type UserController struct {
	store  UserStore
	tokens *auth.TokenManager
	cfg    *config.Config
	photos storage.Disk // nil in inline photo mode
}

func NewUserController(store UserStore, tokens *auth.TokenManager, cfg *config.Config, photos storage.Disk) *UserController {
	return &UserController{store: store, tokens: tokens, cfg: cfg, photos: photos}
}

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required,min=7,max=15"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"nullable,in=USER,ADMIN"`
}

// Register creates an account and returns it with a fresh token.
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	// Pre-check for a friendlier message; the unique indexes are the
	// actual guarantee under concurrent registrations.
	if _, err := c.store.FindByEmailOrPhone(r.Context(), in.Email, in.Phone); err == nil {
		response.BadRequest(w, "User with this email or phone already exists")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		writeErr(w, r, err, "")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := c.store.Create(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			response.BadRequest(w, "User with this email or phone already exists")
			return
		}
		writeErr(w, r, err, "")
		return
	}

	token, err := c.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	logger.WithCtx(r.Context()).Info("user registered", "user_id", user.ID.Hex(), "role", user.Role)
	response.Created(w, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user.Public(),
		"token":   token,
	})
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns the sanitized user plus a token.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.store.FindByEmail(r.Context(), in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if !user.IsActive {
		response.Forbidden(w, "Account is deactivated")
		return
	}

	token, err := c.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	response.Success(w, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Public(),
		"token":   token,
	})
}

// List returns every user. Admin only.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.store.All(r.Context())
	if err != nil {
		writeErr(w, r, err, "")
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	response.Success(w, out)
}

// allowSelfOrAdmin applies the optional ownership policy on per-id user
// routes. The historical API lets any authenticated caller read or update
// any user record; EnforceUserOwnership turns the check on.
func (c *UserController) allowSelfOrAdmin(w http.ResponseWriter, r *http.Request, id string) bool {
	if !c.cfg.EnforceUserOwnership {
		return true
	}
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return false
	}
	if claims.Role != models.RoleAdmin && claims.UserID != id {
		response.Forbidden(w, "You can only access your own record")
		return false
	}
	return true
}

// Get returns one user by id.
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.allowSelfOrAdmin(w, r, id) {
		return
	}

	user, err := c.store.FindByID(r.Context(), id)
	if err != nil {
		writeErr(w, r, err, "User not found")
		return
	}
	response.Success(w, user.Public())
}

type updateUserInput struct {
	Name     *string `json:"name"     validate:"min=2,max=100"`
	Email    *string `json:"email"    validate:"email"`
	Phone    *string `json:"phone"    validate:"min=7,max=15"`
	Password *string `json:"password" validate:"min=6"`
	Role     *string `json:"role"     validate:"in=USER,ADMIN"`
	IsActive *bool   `json:"isActive"`
}

// Update applies a partial update; a supplied password is re-hashed.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !c.allowSelfOrAdmin(w, r, id) {
		return
	}

	var in updateUserInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Role != nil {
		set["role"] = *in.Role
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			writeErr(w, r, err, "")
			return
		}
		set["password"] = hash
	}
	if len(set) == 0 {
		response.BadRequest(w, "Nothing to update")
		return
	}

	user, err := c.store.Update(r.Context(), id, set)
	if err != nil {
		writeErr(w, r, err, "User not found")
		return
	}
	response.Success(w, user.Public())
}

// Delete removes a user. Admin only; dependent records are not cascaded.
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err, "User not found")
		return
	}
	response.Message(w, "User deleted successfully")
}

// Profile returns the record of the authenticated caller.
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return
	}

	user, err := c.store.FindByID(r.Context(), claims.UserID)
	if err != nil {
		writeErr(w, r, err, "User not found")
		return
	}
	response.Success(w, user.Public())
}

// UploadPhoto persists the buffered upload on the caller's own record:
// base64 inline on the document by default, or on the configured photo
// disk with the URL stored instead.
func (c *UserController) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, "")
		return
	}

	file := middleware.FileFromCtx(r.Context())
	if file == nil {
		response.BadRequest(w, "No file uploaded")
		return
	}

	var photo models.ProfilePhoto
	if c.photos != nil {
		key := "photos/" + claims.UserID + path.Ext(file.Filename)
		if err := c.photos.Put(r.Context(), key, file.Data, file.ContentType); err != nil {
			writeErr(w, r, err, "")
			return
		}
		photo = models.ProfilePhoto{URL: c.photos.URL(key), ContentType: file.ContentType}
	} else {
		photo = models.ProfilePhoto{
			Data:        base64.StdEncoding.EncodeToString(file.Data),
			ContentType: file.ContentType,
		}
	}

	user, err := c.store.UpdatePhoto(r.Context(), claims.UserID, photo)
	if err != nil {
		writeErr(w, r, err, "User not found")
		return
	}

	logger.WithCtx(r.Context()).Info("profile photo updated",
		"user_id", claims.UserID, "content_type", file.ContentType, "bytes", len(file.Data))
	response.Success(w, map[string]interface{}{
		"profilePhoto": photo.Ref(),
		"user":         user.Public(),
	})
}
