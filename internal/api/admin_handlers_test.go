package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
)

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestCreateUser_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	reqBody := map[string]any{
		"username":  "newuser",
		"email":     "newuser@example.com",
		"full_name": "New User",
		"role":      "editor",
	}

	rr := env.do("POST", "/api/v1/admin/users", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusCreated)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User database.User `json:"user"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Data.User.Username != "newuser" {
		t.Errorf("Username = %q, want %q", resp.Data.User.Username, "newuser")
	}
	if resp.Data.User.Role != database.RoleEditor {
		t.Errorf("Role = %q, want editor", resp.Data.User.Role)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	env.createTestUser(t, "existinguser", database.RoleUser)

	reqBody := map[string]any{"username": "existinguser"}
	rr := env.do("POST", "/api/v1/admin/users", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusConflict)
}

func TestCreateUser_MissingUsername(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	reqBody := map[string]any{"email": "nouser@example.com"}
	rr := env.do("POST", "/api/v1/admin/users", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusBadRequest)

	reqBody = map[string]any{"username": "x", "role": "cardinal"}
	rr = env.do("POST", "/api/v1/admin/users", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestListUsers_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	env.createTestUser(t, "user1", database.RoleUser)
	env.createTestUser(t, "user2", database.RoleUser)

	rr := env.do("GET", "/api/v1/admin/users", nil, env.adminKey)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			Users []database.User `json:"users"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if len(resp.Data.Users) != 2 {
		t.Errorf("len(Users) = %d, want 2", len(resp.Data.Users))
	}
}

func TestUpdateUserRole(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	user, key := env.createTestUser(t, "promoted", database.RoleUser)
	expectStatus(t, env.do("GET", "/api/v1/admin/celebrations", nil, key), http.StatusForbidden)

	path := "/api/v1/admin/users/" + user.ID + "/role"
	expectStatus(t, env.do("PUT", path, map[string]string{"role": "editor"}, env.adminKey), http.StatusOK)
	expectStatus(t, env.do("GET", "/api/v1/admin/celebrations", nil, key), http.StatusOK)

	expectStatus(t, env.do("PUT", path, map[string]string{"role": "abbot"}, env.adminKey), http.StatusBadRequest)
	expectStatus(t, env.do("PUT", "/api/v1/admin/users/missing/role", map[string]string{"role": "user"}, env.adminKey), http.StatusNotFound)
}

func TestCreateAPIKey_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	user, _ := env.createTestUser(t, "keyuser", database.RoleUser)

	reqBody := map[string]any{"name": "Test Device 2"}
	rr := env.do("POST", "/api/v1/admin/users/"+user.ID+"/keys", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusCreated)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			APIKey database.APIKeyWithPlaintext `json:"api_key"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if resp.Data.APIKey.PlaintextKey == "" {
		t.Error("PlaintextKey is empty")
	}
	if resp.Data.APIKey.Name != "Test Device 2" {
		t.Errorf("Name = %q, want %q", resp.Data.APIKey.Name, "Test Device 2")
	}

	rr = env.do("POST", "/api/v1/admin/users/nobody/keys", reqBody, env.adminKey)
	expectStatus(t, rr, http.StatusNotFound)
}

// =============================================================================
// CELEBRATION EDITING TESTS
// =============================================================================

func principalOf(t *testing.T, env *testEnv, date string) string {
	t.Helper()
	rr := env.do("GET", "/api/v1/calendar/date/"+date, nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data DateView `json:"data"`
	}
	parseResponse(t, rr, &resp)
	return resp.Data.Principal.ID
}

func TestCelebrationRecords_RebuildRegistry(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	_, editorKey := env.createTestUser(t, "editor", database.RoleEditor)

	if got := principalOf(t, env, "2024-07-02"); got != "ferial-2024-07-02" {
		t.Fatalf("before: principal = %q, want ferial", got)
	}

	record := map[string]any{
		"id":           "local-dedication",
		"name":         "Dedication of the Priory Church",
		"date":         "07-02",
		"rank":         "feast",
		"color":        "white",
		"is_dominican": true,
		"description":  "<p>Anniversary <script>alert(1)</script>of dedication</p>",
	}
	rr := env.do("POST", "/api/v1/admin/celebrations", record, editorKey)
	expectStatus(t, rr, http.StatusOK)

	if got := principalOf(t, env, "2024-07-02"); got != "local-dedication" {
		t.Errorf("after save: principal = %q, want local-dedication", got)
	}

	// Display text is sanitised by the registry.
	rr = env.do("GET", "/api/v1/calendar/celebrations/local-dedication", nil, "")
	expectStatus(t, rr, http.StatusOK)
	if body := rr.Body.String(); strings.Contains(body, "<script>") || strings.Contains(body, "alert(1)") {
		t.Errorf("unsanitised description served: %s", body)
	}

	rr = env.do("DELETE", "/api/v1/admin/celebrations/local-dedication", nil, editorKey)
	expectStatus(t, rr, http.StatusOK)

	if got := principalOf(t, env, "2024-07-02"); got != "ferial-2024-07-02" {
		t.Errorf("after delete: principal = %q, want ferial", got)
	}

	rr = env.do("DELETE", "/api/v1/admin/celebrations/local-dedication", nil, editorKey)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestCelebrationRecords_Invalid(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	tests := []map[string]any{
		{"id": "x", "name": "X", "date": "02-30", "rank": "feast", "color": "white"},
		{"id": "x", "name": "X", "date": "03-01", "rank": "feast", "color": "plaid"},
		{"id": "x", "name": "X", "date": "03-01", "rank": "archfeast", "color": "white"},
		{"id": "x", "name": "X", "date": "03-01", "rank": "feast", "color": "white", "surprise": true},
	}

	for i, body := range tests {
		rr := env.do("POST", "/api/v1/admin/celebrations", body, env.adminKey)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("case %d: Status = %d, want 400, body: %s", i, rr.Code, rr.Body.String())
		}
	}
}

func TestCelebrationRecords_LoadedAtStartup(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	ctx := context.Background()
	rec := &database.CelebrationRecord{
		ID:    "parish-patron",
		Name:  "Parish Patronal Feast",
		Date:  "2024-07-03",
		Rank:  1,
		Color: "red",
	}
	if err := env.db.UpsertCelebration(ctx, rec); err != nil {
		t.Fatalf("UpsertCelebration() error = %v", err)
	}

	handlers, err := NewHandlers(ctx, env.db, env.cfg, env.handlers.logger)
	if err != nil {
		t.Fatalf("NewHandlers() error = %v", err)
	}
	env.router = SetupRoutes(handlers, env.cfg, env.handlers.logger)

	if got := principalOf(t, env, "2024-07-03"); got != "parish-patron" {
		t.Errorf("principal = %q, want parish-patron", got)
	}
	// A dated record applies once.
	if got := principalOf(t, env, "2025-07-03"); got == "parish-patron" {
		t.Error("dated record repeated in 2025")
	}
}

// =============================================================================
// USER ENDPOINT TESTS
// =============================================================================

func TestGetCurrentUser_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	user, apiKey := env.createTestUser(t, "currentuser", database.RoleUser)

	rr := env.do("GET", "/api/v1/me", nil, apiKey)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			User database.User `json:"user"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if resp.Data.User.ID != user.ID {
		t.Errorf("User.ID = %s, want %s", resp.Data.User.ID, user.ID)
	}
}

func TestGetMyAPIKeys_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	user, apiKey := env.createTestUser(t, "keysuser", database.RoleUser)

	// Create additional key
	if _, err := env.db.CreateAPIKey(context.Background(), user.ID, "Second Device"); err != nil {
		t.Fatalf("create second key: %v", err)
	}

	rr := env.do("GET", "/api/v1/me/keys", nil, apiKey)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			APIKeys []database.APIKey `json:"api_keys"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if len(resp.Data.APIKeys) != 2 {
		t.Errorf("len(APIKeys) = %d, want 2", len(resp.Data.APIKeys))
	}
}

func TestRevokeMyAPIKey_Success(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	user, apiKey := env.createTestUser(t, "revokeuser", database.RoleUser)

	keyToRevoke, err := env.db.CreateAPIKey(context.Background(), user.ID, "Key To Revoke")
	if err != nil {
		t.Fatalf("create key to revoke: %v", err)
	}

	rr := env.do("DELETE", fmt.Sprintf("/api/v1/me/keys/%d", keyToRevoke.ID), nil, apiKey)
	expectStatus(t, rr, http.StatusOK)

	// The revoked key no longer authenticates
	expectStatus(t, env.do("GET", "/api/v1/me", nil, keyToRevoke.PlaintextKey), http.StatusUnauthorized)
	expectStatus(t, env.do("GET", "/api/v1/me", nil, apiKey), http.StatusOK)
}

func TestRevokeMyAPIKey_WrongUser(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	_, apiKey1 := env.createTestUser(t, "user1", database.RoleUser)
	user2, _ := env.createTestUser(t, "user2", database.RoleUser)

	user2Key, err := env.db.CreateAPIKey(context.Background(), user2.ID, "User2 Key")
	if err != nil {
		t.Fatalf("create user2 key: %v", err)
	}

	rr := env.do("DELETE", fmt.Sprintf("/api/v1/me/keys/%d", user2Key.ID), nil, apiKey1)
	expectStatus(t, rr, http.StatusNotFound)

	// user2's key still works
	expectStatus(t, env.do("GET", "/api/v1/me", nil, user2Key.PlaintextKey), http.StatusOK)
}

func TestPreferences_RoundTrip(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	_, apiKey := env.createTestUser(t, "reader", database.RoleUser)

	var resp struct {
		Data struct {
			Preferences liturgy.Preferences `json:"preferences"`
		} `json:"data"`
	}

	// Defaults before anything is saved
	rr := env.do("GET", "/api/v1/me/preferences", nil, apiKey)
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &resp)
	if resp.Data.Preferences != liturgy.DefaultPreferences() {
		t.Errorf("initial preferences = %+v, want defaults", resp.Data.Preferences)
	}

	update := map[string]any{
		"primary_language":   "la",
		"secondary_language": "EN",
		"display_mode":       "bilingual",
		"font_size":          "large",
		"show_rubrics":       false,
	}
	rr = env.do("PUT", "/api/v1/me/preferences", update, apiKey)
	expectStatus(t, rr, http.StatusOK)

	rr = env.do("GET", "/api/v1/me/preferences", nil, apiKey)
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &resp)

	got := resp.Data.Preferences
	if got.PrimaryLanguage != "la" || got.SecondaryLanguage != "en" {
		t.Errorf("languages = %q/%q, want la/en", got.PrimaryLanguage, got.SecondaryLanguage)
	}
	if got.DisplayMode != liturgy.DisplayBilingual || got.FontSize != liturgy.FontLarge || got.ShowRubrics {
		t.Errorf("preferences = %+v", got)
	}

	// The stored preferences drive the personal office
	rr = env.do("GET", "/api/v1/me/compline/2024-05-26", nil, apiKey)
	expectStatus(t, rr, http.StatusOK)
	var office officeResponse
	parseResponse(t, rr, &office)
	if office.Data.Office.Info.Title != "Completorium" {
		t.Errorf("Title = %q, want Completorium", office.Data.Office.Info.Title)
	}
}

func TestPreferences_Invalid(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	_, apiKey := env.createTestUser(t, "reader", database.RoleUser)

	rr := env.do("PUT", "/api/v1/me/preferences", map[string]any{"font_size": "enormous"}, apiKey)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do("PUT", "/api/v1/me/preferences", map[string]any{"theme": "dark"}, apiKey)
	expectStatus(t, rr, http.StatusBadRequest)

	// The bootstrap admin has no row to store preferences in
	rr = env.do("PUT", "/api/v1/me/preferences", map[string]any{"font_size": "small"}, env.adminKey)
	expectStatus(t, rr, http.StatusForbidden)
}

// =============================================================================
// INTEGRATION TEST
// =============================================================================

func TestFullAuthFlow(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	// 1. Admin creates user
	rr := env.do("POST", "/api/v1/admin/users", map[string]any{"username": "flowuser"}, env.adminKey)
	expectStatus(t, rr, http.StatusCreated)

	var createUserResp struct {
		Data struct {
			User database.User `json:"user"`
		} `json:"data"`
	}
	parseResponse(t, rr, &createUserResp)
	userID := createUserResp.Data.User.ID

	// 2. Admin creates API key for user
	rr = env.do("POST", "/api/v1/admin/users/"+userID+"/keys", map[string]any{"name": "Flow Device"}, env.adminKey)
	expectStatus(t, rr, http.StatusCreated)

	var createKeyResp struct {
		Data struct {
			APIKey database.APIKeyWithPlaintext `json:"api_key"`
		} `json:"data"`
	}
	parseResponse(t, rr, &createKeyResp)
	userAPIKey := createKeyResp.Data.APIKey.PlaintextKey

	// 3. User authenticates with the new key
	rr = env.do("GET", "/api/v1/me", nil, userAPIKey)
	expectStatus(t, rr, http.StatusOK)

	// 4. User cannot reach admin routes
	expectStatus(t, env.do("GET", "/api/v1/admin/users", nil, userAPIKey), http.StatusForbidden)
}
