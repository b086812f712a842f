package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type fakeProfileStore struct {
	getByUserID      func(ctx context.Context, userID string) (*models.Profile, error)
	list             func(ctx context.Context) ([]models.Profile, error)
	upsert           func(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error)
	addExperience    func(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	removeExperience func(ctx context.Context, userID, expID string) (*models.Profile, error)
	addEducation     func(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	removeEducation  func(ctx context.Context, userID, eduID string) (*models.Profile, error)
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return f.getByUserID(ctx, userID)
}
func (f *fakeProfileStore) List(ctx context.Context) ([]models.Profile, error) {
	return f.list(ctx)
}
func (f *fakeProfileStore) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	return f.upsert(ctx, userID, req)
}
func (f *fakeProfileStore) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return f.addExperience(ctx, userID, exp)
}
func (f *fakeProfileStore) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return f.removeExperience(ctx, userID, expID)
}
func (f *fakeProfileStore) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return f.addEducation(ctx, userID, edu)
}
func (f *fakeProfileStore) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return f.removeEducation(ctx, userID, eduID)
}

type fakeAccountStore struct {
	deleteAccount func(ctx context.Context, userID string) error
}

func (f *fakeAccountStore) DeleteAccount(ctx context.Context, userID string) error {
	return f.deleteAccount(ctx, userID)
}

const testUserID = "507f1f77bcf86cd799439011"

// newProfileRouter mounts the profile routes the way cmd/server does, with
// the authenticated user injected directly into the context.
func newProfileRouter(h *ProfileHandler, userID string) http.Handler {
	r := chi.NewRouter()
	if userID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Get("/", h.ListProfiles)
	r.Get("/me", h.GetMe)
	r.Get("/user/{user_id}", h.GetByUserID)
	r.Post("/", h.UpsertProfile)
	r.Delete("/", h.DeleteAccount)
	r.Put("/experience", h.AddExperience)
	r.Delete("/experience/{exp_id}", h.RemoveExperience)
	r.Put("/education", h.AddEducation)
	r.Delete("/education/{edu_id}", h.RemoveEducation)
	return r
}

func TestGetMe(t *testing.T) {
	store := &fakeProfileStore{
		getByUserID: func(ctx context.Context, userID string) (*models.Profile, error) {
			assert.Equal(t, testUserID, userID)
			return &models.Profile{Status: "Developer", Skills: []string{"go", "mongo"}}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"go", "mongo"}, got.Skills)
}

func TestGetMeNoProfile(t *testing.T) {
	store := &fakeProfileStore{
		getByUserID: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, services.ErrProfileNotFound
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Bare JSON string body, not a {msg} object.
	assert.Equal(t, `"No profile for this user"`, strings.TrimSpace(rec.Body.String()))
}

func TestGetMeUnauthenticated(t *testing.T) {
	h := NewProfileHandler(&fakeProfileStore{}, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpsertProfileValidationRejectsBeforeWrite(t *testing.T) {
	called := false
	store := &fakeProfileStore{
		upsert: func(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
			called = true
			return &models.Profile{}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())

	body := strings.NewReader(`{"skills": "go"}`) // status missing
	req := httptest.NewRequest(http.MethodPost, "/", body)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ValidationErrors
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "status", resp.Errors[0].Param)
	assert.False(t, called, "validation failure must not reach the store")
}

func TestUpsertProfilePassesFieldsThrough(t *testing.T) {
	var gotReq *models.UpsertProfileRequest
	store := &fakeProfileStore{
		upsert: func(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
			gotReq = req
			return &models.Profile{Status: req.Status}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())

	body := strings.NewReader(`{"status": "Developer", "skills": "node, react , css", "twitter": "tw"}`)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", body))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotReq)
	assert.Equal(t, "node, react , css", gotReq.Skills)
	assert.Equal(t, "tw", gotReq.Twitter)
	assert.Empty(t, gotReq.Company)
}

func TestListProfiles(t *testing.T) {
	store := &fakeProfileStore{
		list: func(ctx context.Context) ([]models.Profile, error) {
			return []models.Profile{
				{Status: "Developer", User: &models.UserRef{Name: "Jane", Avatar: "a"}},
				{Status: "Designer"},
			}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.NotNil(t, got[0].User)
	assert.Equal(t, "Jane", got[0].User.Name)
}

func TestGetByUserIDNotFound(t *testing.T) {
	store := &fakeProfileStore{
		getByUserID: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, services.ErrProfileNotFound
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/does-not-exist", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg": "Profile not found"}`, rec.Body.String())
}

func TestGetByUserIDFault(t *testing.T) {
	store := &fakeProfileStore{
		getByUserID: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/"+testUserID, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", strings.TrimSpace(rec.Body.String()))
}

func TestDeleteAccount(t *testing.T) {
	var deleted string
	accounts := &fakeAccountStore{
		deleteAccount: func(ctx context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}
	h := NewProfileHandler(&fakeProfileStore{}, accounts, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg": "User deleted"}`, rec.Body.String())
	assert.Equal(t, testUserID, deleted)
}

func TestDeleteAccountFault(t *testing.T) {
	accounts := &fakeAccountStore{
		deleteAccount: func(ctx context.Context, userID string) error {
			return context.DeadlineExceeded
		},
	}
	h := NewProfileHandler(&fakeProfileStore{}, accounts, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddExperience(t *testing.T) {
	var gotExp models.Experience
	store := &fakeProfileStore{
		addExperience: func(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
			gotExp = exp
			return &models.Profile{ID: primitive.NewObjectID(), Experience: []models.Experience{exp}}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())

	body := strings.NewReader(`{"title": "Dev", "company": "Acme", "from": "2020-01-01", "current": true}`)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/experience", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, gotExp.ID, "entries get a generated id at creation")
	assert.Equal(t, "Dev", gotExp.Title)
	assert.True(t, gotExp.Current)
}

func TestAddExperienceValidation(t *testing.T) {
	h := NewProfileHandler(&fakeProfileStore{}, nil, zap.NewNop())

	body := strings.NewReader(`{"title": "Dev"}`)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/experience", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ValidationErrors
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Errors, 2) // company, from
}

func TestAddExperienceNoProfile(t *testing.T) {
	store := &fakeProfileStore{
		addExperience: func(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
			return nil, services.ErrProfileNotFound
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())

	body := strings.NewReader(`{"title": "Dev", "company": "Acme", "from": "2020-01-01"}`)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/experience", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg": "No profile for this user"}`, rec.Body.String())
}

func TestRemoveExperience(t *testing.T) {
	store := &fakeProfileStore{
		removeExperience: func(ctx context.Context, userID, expID string) (*models.Profile, error) {
			assert.Equal(t, "e1", expID)
			return &models.Profile{Experience: []models.Experience{{ID: "e2"}}}, nil
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/experience/e1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "e2", got.Experience[0].ID)
}

func TestRemoveExperienceUnknownID(t *testing.T) {
	store := &fakeProfileStore{
		removeExperience: func(ctx context.Context, userID, expID string) (*models.Profile, error) {
			return nil, services.ErrEntryNotFound
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/experience/nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg": "Experience not found"}`, rec.Body.String())
}

func TestAddEducationValidation(t *testing.T) {
	h := NewProfileHandler(&fakeProfileStore{}, nil, zap.NewNop())

	body := strings.NewReader(`{"school": "MIT"}`)
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/education", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp models.ValidationErrors
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Errors, 3) // degree, fieldofstudy, from
}

func TestRemoveEducationUnknownID(t *testing.T) {
	store := &fakeProfileStore{
		removeEducation: func(ctx context.Context, userID, eduID string) (*models.Profile, error) {
			return nil, services.ErrEntryNotFound
		},
	}
	h := NewProfileHandler(store, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	newProfileRouter(h, testUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/education/nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"msg": "Education not found"}`, rec.Body.String())
}
