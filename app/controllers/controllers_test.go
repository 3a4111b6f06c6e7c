package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/middleware"
)

// apiResponse mirrors the JSON envelope for assertions.
type apiResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam attaches a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(r *http.Request, id primitive.ObjectID, role string) *http.Request {
	claims := &auth.Claims{UserID: id.Hex(), Role: role}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// fakeUserStore keeps users in a slice and honors the store error contract.
type fakeUserStore struct {
	users   []*models.User
	created []*models.User
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, e := range s.users {
		if e.Email == u.Email || e.Phone == u.Phone {
			return repositories.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, u)
	s.created = append(s.created, u)
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email || u.Phone == phone {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) All(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, id string, set bson.M) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.Hex() != id {
			continue
		}
		if v, ok := set["name"].(string); ok {
			u.Name = v
		}
		if v, ok := set["email"].(string); ok {
			u.Email = v
		}
		if v, ok := set["phone"].(string); ok {
			u.Phone = v
		}
		if v, ok := set["password"].(string); ok {
			u.Password = v
		}
		if v, ok := set["role"].(string); ok {
			u.Role = v
		}
		if v, ok := set["isActive"].(bool); ok {
			u.IsActive = v
		}
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) UpdatePhoto(_ context.Context, id string, photo models.ProfilePhoto) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.Hex() == id {
			u.ProfilePhoto = photo
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	for i, u := range s.users {
		if u.ID.Hex() == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakePlanStore struct {
	plans []*models.Plan
}

func (s *fakePlanStore) Create(_ context.Context, p *models.Plan) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.plans = append(s.plans, p)
	return nil
}

func (s *fakePlanStore) All(_ context.Context, provider string) ([]models.Plan, error) {
	out := []models.Plan{}
	for _, p := range s.plans {
		if provider == "" || p.Provider == provider {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePlanStore) FindByID(_ context.Context, id string) (*models.Plan, error) {
	for _, p := range s.plans {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakePlanStore) Update(_ context.Context, id string, set bson.M) (*models.Plan, error) {
	for _, p := range s.plans {
		if p.ID.Hex() != id {
			continue
		}
		if v, ok := set["provider"].(string); ok {
			p.Provider = v
		}
		if v, ok := set["planName"].(string); ok {
			p.PlanName = v
		}
		if v, ok := set["price"].(float64); ok {
			p.Price = v
		}
		if v, ok := set["data"].(string); ok {
			p.Data = v
		}
		if v, ok := set["validity"].(string); ok {
			p.Validity = v
		}
		if v, ok := set["addOns"].(string); ok {
			p.AddOns = v
		}
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *fakePlanStore) Delete(_ context.Context, id string) error {
	for i, p := range s.plans {
		if p.ID.Hex() == id {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeTransactionStore struct {
	txns []*models.Transaction
}

func (s *fakeTransactionStore) Create(_ context.Context, t *models.Transaction) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.Status = models.StatusPending
	t.TransactionID = repositories.NewTransactionID()
	s.txns = append(s.txns, t)
	return nil
}

func (s *fakeTransactionStore) All(_ context.Context) ([]models.TransactionDetail, error) {
	out := []models.TransactionDetail{}
	for _, t := range s.txns {
		out = append(out, models.TransactionDetail{Transaction: *t})
	}
	return out, nil
}

func (s *fakeTransactionStore) ByUser(_ context.Context, userID string) ([]models.TransactionDetail, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repositories.ErrInvalidID
	}
	out := []models.TransactionDetail{}
	for _, t := range s.txns {
		if t.UserID == id {
			out = append(out, models.TransactionDetail{Transaction: *t})
		}
	}
	return out, nil
}

func (s *fakeTransactionStore) FindByID(_ context.Context, id string) (*models.Transaction, error) {
	for _, t := range s.txns {
		if t.ID.Hex() == id {
			return t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeTransactionStore) UpdateStatus(_ context.Context, id, status string) (*models.Transaction, error) {
	for _, t := range s.txns {
		if t.ID.Hex() == id {
			t.Status = status
			return t, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeTransactionStore) Delete(_ context.Context, id string) error {
	for i, t := range s.txns {
		if t.ID.Hex() == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeFeedbackStore struct {
	items []*models.Feedback
}

func (s *fakeFeedbackStore) Create(_ context.Context, fb *models.Feedback) error {
	if fb.ID.IsZero() {
		fb.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, fb)
	return nil
}

func (s *fakeFeedbackStore) Approved(_ context.Context) ([]models.Feedback, error) {
	out := []models.Feedback{}
	for _, fb := range s.items {
		if fb.IsApproved {
			out = append(out, *fb)
		}
	}
	return out, nil
}

func (s *fakeFeedbackStore) All(_ context.Context) ([]models.Feedback, error) {
	out := []models.Feedback{}
	for _, fb := range s.items {
		out = append(out, *fb)
	}
	return out, nil
}

func (s *fakeFeedbackStore) Approve(_ context.Context, id string) (*models.Feedback, error) {
	for _, fb := range s.items {
		if fb.ID.Hex() == id {
			fb.IsApproved = true
			return fb, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeFeedbackStore) Delete(_ context.Context, id string) error {
	for i, fb := range s.items {
		if fb.ID.Hex() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
