package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

// ProfileStore is the persistence surface the profile routes need.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error)
	AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
}

// AccountStore deletes a user and everything the user owns.
type AccountStore interface {
	DeleteAccount(ctx context.Context, userID string) error
}

type ProfileHandler struct {
	profiles ProfileStore
	accounts AccountStore
	log      *zap.Logger
}

func NewProfileHandler(profiles ProfileStore, accounts AccountStore, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts, log: log}
}

// GetMe returns the caller's own profile with the user reference populated.
// A missing profile is a 400 with a bare string body, per the original
// client contract.
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, "No profile for this user")
			return
		}
		h.log.Error("get own profile", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// UpsertProfile creates the caller's profile on first use and sparse-merges
// on every call after: only supplied fields are written, absent fields are
// never cleared.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	var req models.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrors{Errors: errs})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		h.log.Error("upsert profile", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// ListProfiles is public and unpaginated.
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	profiles, err := h.profiles.List(ctx)
	if err != nil {
		h.log.Error("list profiles", zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// GetByUserID is public. A malformed id and a missing profile are the same
// 400 on purpose.
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "user_id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Profile not found"})
			return
		}
		h.log.Error("get profile by user", zap.String("target", targetID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

// DeleteAccount removes the caller's posts, profile and user record, in that
// order.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), services.DefaultAccountTimeout())
	defer cancel()

	if err := h.accounts.DeleteAccount(ctx, userID); err != nil {
		h.log.Error("delete account", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Msg: "User deleted"})
}

func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	var req models.ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrors{Errors: errs})
		return
	}

	exp := models.Experience{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.AddExperience(ctx, userID, exp)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "No profile for this user"})
			return
		}
		h.log.Error("add experience", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}
	expID := chi.URLParam(r, "exp_id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "No profile for this user"})
		case errors.Is(err, services.ErrEntryNotFound):
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Experience not found"})
		default:
			h.log.Error("remove experience", zap.String("user", userID), zap.Error(err))
			serverError(w)
		}
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	var req models.EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Invalid request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrors{Errors: errs})
		return
	}

	edu := models.Education{
		ID:           uuid.NewString(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.AddEducation(ctx, userID, edu)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "No profile for this user"})
			return
		}
		h.log.Error("add education", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}
	eduID := chi.URLParam(r, "edu_id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	prof, err := h.profiles.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProfileNotFound):
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "No profile for this user"})
		case errors.Is(err, services.ErrEntryNotFound):
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "Education not found"})
		default:
			h.log.Error("remove education", zap.String("user", userID), zap.Error(err))
			serverError(w)
		}
		return
	}
	writeJSON(w, http.StatusOK, prof)
}
