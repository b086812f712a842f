package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

// UserStore is the identity surface the auth routes need.
type UserStore interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type AuthHandler struct {
	users         UserStore
	jwtSecret     string
	jwtExpiration time.Duration
	log           *zap.Logger
}

func NewAuthHandler(users UserStore, jwtSecret string, jwtExpiration time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		log:           log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.users.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeJSON(w, http.StatusBadRequest, models.ValidationErrors{
				Errors: []models.FieldError{{Msg: "User already exists", Param: "email"}},
			})
			return
		}
		h.log.Error("register user", zap.Error(err))
		serverError(w)
		return
	}

	token, err := h.generateToken(user.ID.Hex())
	if err != nil {
		h.log.Error("generate token", zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.users.Login(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidPassword) {
			writeJSON(w, http.StatusBadRequest, models.ValidationErrors{
				Errors: []models.FieldError{{Msg: "Invalid Credentials"}},
			})
			return
		}
		h.log.Error("login user", zap.Error(err))
		serverError(w)
		return
	}

	token, err := h.generateToken(user.ID.Hex())
	if err != nil {
		h.log.Error("generate token", zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// CurrentUser returns the authenticated user without the password hash.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Msg: "Authorization denied"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Msg: "User not found"})
			return
		}
		h.log.Error("get current user", zap.String("user", userID), zap.Error(err))
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) generateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(h.jwtExpiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
