package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

// GetCurrentUser handles GET /api/v1/me
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"user": GetUser(r),
	})
}

// GetMyAPIKeys handles GET /api/v1/me/keys
func (h *Handlers) GetMyAPIKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUser(r)

	keys, err := h.db.ListUserAPIKeys(ctx, user.ID)
	if err != nil {
		logger.Error(ctx, "failed to list api keys", err)
		WriteInternalError(w, "Failed to retrieve API keys")
		return
	}

	WriteSuccess(w, map[string]any{
		"api_keys": keys,
	})
}

// RevokeMyAPIKey handles DELETE /api/v1/me/keys/{keyID}
func (h *Handlers) RevokeMyAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUser(r)

	keyID, err := strconv.ParseInt(chi.URLParam(r, "keyID"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid key ID")
		return
	}

	if err := h.db.RevokeAPIKey(ctx, user.ID, keyID); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "API key not found")
			return
		}
		logger.Error(ctx, "failed to revoke api key", err)
		WriteInternalError(w, "Failed to revoke API key")
		return
	}

	WriteSuccess(w, map[string]string{"message": "API key revoked"})
}

// GetMyPreferences handles GET /api/v1/me/preferences
func (h *Handlers) GetMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUser(r)

	prefs, err := h.db.PreferencesOrDefault(ctx, user.ID)
	if err != nil {
		logger.Error(ctx, "failed to load preferences", err)
		WriteInternalError(w, "Failed to retrieve preferences")
		return
	}

	WriteSuccess(w, map[string]any{
		"preferences": prefs,
	})
}

// UpdateMyPreferences handles PUT /api/v1/me/preferences
func (h *Handlers) UpdateMyPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := GetUser(r)

	if isBootstrapAdmin(user) {
		WriteForbidden(w, "The admin key has no stored preferences")
		return
	}

	prefs := liturgy.DefaultPreferences()
	if err := decodeJSON(r, &prefs); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	stored, err := h.db.SavePreferences(ctx, user.ID, prefs)
	if err != nil {
		if errors.Is(err, liturgy.ErrInvalidPreferences) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(ctx, "failed to save preferences", err)
		WriteInternalError(w, "Failed to save preferences")
		return
	}

	WriteSuccess(w, map[string]any{
		"preferences": stored.Preferences,
		"updated_at":  stored.UpdatedAt,
	})
}
