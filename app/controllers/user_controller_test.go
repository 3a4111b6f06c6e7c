package controllers

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/config"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
)

func newUserController(store UserStore, cfg *config.Config) *UserController {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return NewUserController(store, auth.NewTokenManager("test-secret"), cfg, nil)
}

func seedUser(t *testing.T, store *fakeUserStore, email, phone, password, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Seed User",
		Email:    email,
		Phone:    phone,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	store.users = append(store.users, u)
	return u
}

func TestRegisterCreatesUserWithToken(t *testing.T) {
	store := &fakeUserStore{}
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPost, "/users/register", map[string]interface{}{
		"name":     "Asha Verma",
		"email":    "asha@example.com",
		"phone":    "9876543210",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeResponse(t, rec)
	assert.Contains(t, string(body.Data), "User registered successfully")
	assert.Contains(t, string(body.Data), `"token"`)

	require.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, models.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "secret123", created.Password, "password must be stored hashed")
	assert.NotContains(t, string(body.Data), created.Password)
}

func TestRegisterRejectsDuplicateEmailOrPhone(t *testing.T) {
	store := &fakeUserStore{}
	seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPost, "/users/register", map[string]interface{}{
		"name":     "Someone Else",
		"email":    "asha@example.com",
		"phone":    "1112223334",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email or phone already exists", decodeResponse(t, rec).Message)
}

func TestRegisterValidatesInput(t *testing.T) {
	c := newUserController(&fakeUserStore{}, nil)

	req := jsonRequest(t, http.MethodPost, "/users/register", map[string]interface{}{
		"name":     "A",
		"email":    "not-an-email",
		"phone":    "12",
		"password": "123",
	})
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	store := &fakeUserStore{}
	seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPost, "/users/login", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeResponse(t, rec).Data), `"token"`)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := &fakeUserStore{}
	seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "asha@example.com", "wrong-pass"},
		{"unknown email", "nobody@example.com", "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/users/login", map[string]interface{}{
				"email":    tc.email,
				"password": tc.pass,
			})
			rec := httptest.NewRecorder()
			c.Login(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid email or password", decodeResponse(t, rec).Message)
		})
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	u.IsActive = false
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPost, "/users/login", map[string]interface{}{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Account is deactivated", decodeResponse(t, rec).Message)
}

func TestListOmitsPasswordHashes(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleAdmin)
	c := newUserController(store, nil)

	rec := httptest.NewRecorder()
	c.List(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), u.Password)
}

func TestGetUserNotFound(t *testing.T) {
	c := newUserController(&fakeUserStore{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/x", nil), "id", primitive.NewObjectID().Hex())
	rec := httptest.NewRecorder()
	c.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeResponse(t, rec).Message)
}

func TestUpdateUserPartial(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPut, "/users/"+u.ID.Hex(), map[string]interface{}{
		"name": "Asha Renamed",
	})
	rec := httptest.NewRecorder()
	c.Update(rec, withURLParam(req, "id", u.ID.Hex()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha Renamed", u.Name)
	assert.Equal(t, "asha@example.com", u.Email)
}

func TestUpdateUserNothingToUpdate(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := jsonRequest(t, http.MethodPut, "/users/"+u.ID.Hex(), map[string]interface{}{})
	rec := httptest.NewRecorder()
	c.Update(rec, withURLParam(req, "id", u.ID.Hex()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nothing to update", decodeResponse(t, rec).Message)
}

func TestOwnershipPolicyBlocksOtherUsers(t *testing.T) {
	store := &fakeUserStore{}
	owner := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	other := seedUser(t, store, "ravi@example.com", "9123456780", "secret123", models.RoleUser)
	c := newUserController(store, &config.Config{EnforceUserOwnership: true})

	// Another plain user is rejected.
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/x", nil), "id", owner.ID.Hex())
	rec := httptest.NewRecorder()
	c.Get(rec, asUser(req, other.ID, models.RoleUser))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The owner and an admin both pass.
	req = withURLParam(httptest.NewRequest(http.MethodGet, "/users/x", nil), "id", owner.ID.Hex())
	rec = httptest.NewRecorder()
	c.Get(rec, asUser(req, owner.ID, models.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/users/x", nil), "id", owner.ID.Hex())
	rec = httptest.NewRecorder()
	c.Get(rec, asUser(req, other.ID, models.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileReturnsAuthenticatedUser(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := asUser(httptest.NewRequest(http.MethodGet, "/users/profile/me", nil), u.ID, models.RoleUser)
	rec := httptest.NewRecorder()
	c.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeResponse(t, rec).Data), u.Email)
}

func TestUploadPhotoStoresInlineBase64(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	req := asUser(httptest.NewRequest(http.MethodPost, "/users/upload-photo", nil), u.ID, models.RoleUser)
	req = req.WithContext(middleware.WithFile(req.Context(), &middleware.UploadedFile{
		Data:        payload,
		ContentType: "image/jpeg",
		Filename:    "avatar.jpg",
	}))
	rec := httptest.NewRecorder()
	c.UploadPhoto(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), u.ProfilePhoto.Data)
	assert.Equal(t, "image/jpeg", u.ProfilePhoto.ContentType)
}

func TestUploadPhotoRequiresFile(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := asUser(httptest.NewRequest(http.MethodPost, "/users/upload-photo", nil), u.ID, models.RoleUser)
	rec := httptest.NewRecorder()
	c.UploadPhoto(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeResponse(t, rec).Message)
}

func TestDeleteUser(t *testing.T) {
	store := &fakeUserStore{}
	u := seedUser(t, store, "asha@example.com", "9876543210", "secret123", models.RoleUser)
	c := newUserController(store, nil)

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/users/x", nil), "id", u.ID.Hex())
	rec := httptest.NewRecorder()
	c.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", decodeResponse(t, rec).Message)
	assert.Empty(t, store.users)
}
