package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

// =============================================================================
// Users (admin)
// =============================================================================

// ListUsers handles GET /api/v1/admin/users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.db.ListUsers(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list users", err)
		WriteInternalError(w, "Failed to retrieve users")
		return
	}

	WriteSuccess(w, map[string]any{
		"users": users,
	})
}

// CreateUser handles POST /api/v1/admin/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Username string  `json:"username"`
		Email    *string `json:"email,omitempty"`
		FullName *string `json:"full_name,omitempty"`
		Role     string  `json:"role,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		WriteBadRequest(w, "username is required")
		return
	}
	role, err := database.ParseRole(req.Role)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.db.CreateUser(ctx, req.Username, req.Email, req.FullName, role)
	if err != nil {
		switch {
		case database.IsDuplicate(err):
			WriteConflict(w, "Username already exists")
		case errors.Is(err, database.ErrInvalidInput):
			WriteBadRequest(w, err.Error())
		default:
			logger.Error(ctx, "failed to create user", err)
			WriteInternalError(w, "Failed to create user")
		}
		return
	}

	logger.Info(ctx, "user created", "new_user_id", user.ID, "role", string(user.Role))
	WriteCreated(w, map[string]any{
		"user": user,
	})
}

// CreateAPIKey handles POST /api/v1/admin/users/{userID}/keys
func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	key, err := h.db.CreateAPIKey(ctx, userID, req.Name)
	if err != nil {
		switch {
		case database.IsNotFound(err):
			WriteNotFound(w, "User not found")
		case errors.Is(err, database.ErrInvalidInput):
			WriteBadRequest(w, err.Error())
		default:
			logger.Error(ctx, "failed to create api key", err)
			WriteInternalError(w, "Failed to create API key")
		}
		return
	}

	WriteCreated(w, map[string]any{
		"api_key": key,
		"message": "Store this key now; it cannot be shown again",
	})
}

// UpdateUserRole handles PUT /api/v1/admin/users/{userID}/role
func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	role, err := database.ParseRole(req.Role)
	if err != nil || req.Role == "" {
		WriteBadRequest(w, "role must be one of: user, editor, admin")
		return
	}

	if err := h.db.SetUserRole(ctx, userID, role); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "User not found")
			return
		}
		logger.Error(ctx, "failed to update role", err)
		WriteInternalError(w, "Failed to update role")
		return
	}

	user, err := h.db.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to reload user", err)
		WriteInternalError(w, "Failed to retrieve user")
		return
	}
	WriteSuccess(w, map[string]any{"user": user})
}

// =============================================================================
// Celebrations (editor)
// =============================================================================

// ListCelebrationRecords handles GET /api/v1/admin/celebrations
func (h *Handlers) ListCelebrationRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.db.ListCelebrations(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list celebrations", err)
		WriteInternalError(w, "Failed to retrieve celebrations")
		return
	}

	WriteSuccess(w, map[string]any{
		"celebrations": records,
	})
}

// UpsertCelebrationRecord handles POST /api/v1/admin/celebrations
//
// The record replaces any stored record with the same id, and the registry
// is rebuilt before the response is sent.
func (h *Handlers) UpsertCelebrationRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUser(r)

	var rec database.CelebrationRecord
	if err := decodeJSON(r, &rec); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	rec.CreatedBy = nil
	if !isBootstrapAdmin(user) {
		rec.CreatedBy = &user.ID
	}

	if err := h.db.UpsertCelebration(ctx, &rec); err != nil {
		if errors.Is(err, database.ErrInvalidInput) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(ctx, "failed to save celebration", err)
		WriteInternalError(w, "Failed to save celebration")
		return
	}

	if err := h.ReloadCelebrations(ctx); err != nil {
		logger.Error(ctx, "failed to reload celebrations", err)
		WriteInternalError(w, "Celebration saved but the calendar was not reloaded")
		return
	}

	stored, err := h.db.GetCelebration(ctx, rec.ID)
	if err != nil {
		logger.Error(ctx, "failed to reload celebration", err)
		WriteInternalError(w, "Failed to retrieve celebration")
		return
	}
	WriteSuccess(w, map[string]any{"celebration": stored})
}

// DeleteCelebrationRecord handles DELETE /api/v1/admin/celebrations/{id}
func (h *Handlers) DeleteCelebrationRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.db.DeleteCelebration(ctx, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Celebration not found")
			return
		}
		logger.Error(ctx, "failed to delete celebration", err)
		WriteInternalError(w, "Failed to delete celebration")
		return
	}

	if err := h.ReloadCelebrations(ctx); err != nil {
		logger.Error(ctx, "failed to reload celebrations", err)
		WriteInternalError(w, "Celebration deleted but the calendar was not reloaded")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Celebration deleted"})
}
