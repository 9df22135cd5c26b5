package transport

import (
	"net/http"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/session"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserRequest registers an account from the admin settings page.
// Unlike the seeded demo users, accounts created here always get a
// password hash.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin user guest"`
	Avatar   string `json:"avatar"`
}

// UpdateUserRequest edits profile fields. Role changes are allowed here;
// password changes are not (out of scope for the settings form).
type UpdateUserRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,oneof=admin user guest"`
	Avatar string `json:"avatar"`
}

// UserHandler exposes admin-only user management.
type UserHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewUserHandler(st store.Store, logger *zap.Logger) *UserHandler {
	return &UserHandler{store: st, logger: logger}
}

func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireAdmin)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, profileOf(&users[i]))
	}
	middleware.RespondWithJSON(w, http.StatusOK, profiles)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if existing, err := h.store.FindUserByEmail(r.Context(), req.Email); err == nil && existing != nil {
		middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		return
	}

	hash, err := session.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	role, _ := domain.ParseRole(req.Role)
	created, err := h.store.AddUser(r.Context(), domain.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		Avatar:       req.Avatar,
		PasswordHash: hash,
	})
	if err != nil {
		h.logger.Error("Failed to create user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", created.ID.String()), zap.String("role", req.Role))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(created))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Preserve the stored password hash through the profile update.
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to load user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	var existing *domain.User
	for i := range users {
		if users[i].ID == id {
			existing = &users[i]
			break
		}
	}
	if existing == nil {
		middleware.RespondWithNotFound(w, "user not found")
		return
	}

	role, _ := domain.ParseRole(req.Role)
	existing.Name = req.Name
	existing.Email = req.Email
	existing.Role = role
	existing.Avatar = req.Avatar

	found, err := h.store.UpdateUser(r.Context(), *existing)
	if err != nil {
		h.logger.Error("Failed to update user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "user not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, profileOf(existing))
}
