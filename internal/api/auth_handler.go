// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the POST /api/auth/register endpoint. Validation
// failures come back as a per-field error map with every violation
// reported; uniqueness conflicts on username or email surface the same
// way rather than as a bare conflict status.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, hashed)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			shared.RespondWithFieldErrors(w, r, map[string][]string{
				"username": {"A user with that username already exists."},
			})
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithFieldErrors(w, r, map[string][]string{
				"email": {"A user with that email already exists."},
			})
		default:
			log.Error("failed to create user", "error", err, "username", req.Username)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login handles the POST /api/auth/login endpoint. Unknown usernames and
// wrong passwords are deliberately indistinguishable in the response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("failed to get user by username", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate access token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate refresh token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Access:  access,
		Refresh: refresh,
	})
}

// RefreshToken handles the POST /api/auth/token/refresh endpoint. A valid
// unexpired refresh token yields a new access token; anything else is a
// 401.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.Refresh)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	access, err := h.jwtService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to generate access token", "error", err, "user_id", claims.UserID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{Access: access})
}
