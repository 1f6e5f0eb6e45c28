package main

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	app, r := newTestApp(t)
	user, _ := createTestUser(t, app, "mod@klu.ac.in", RoleModerator)

	t.Run("success returns token and user summary", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/login",
			gin.H{"email": "mod@klu.ac.in", "password": "secret123"}, "")
		env := mustStatus(t, w, http.StatusOK)
		assert.Equal(t, "Login successful", env.Message)

		var data struct {
			Token string `json:"token"`
			User  struct {
				ID   string `json:"id"`
				Role string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEmpty(t, data.Token)
		assert.Equal(t, user.ID, data.User.ID)
		assert.Equal(t, RoleModerator, data.User.Role)

		// login stamps lastLogin
		stored, err := app.store.GetUserByID(user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/login",
			gin.H{"email": "mod@klu.ac.in", "password": "nope"}, "")
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", env.Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/login",
			gin.H{"email": "ghost@klu.ac.in", "password": "secret123"}, "")
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid credentials", env.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/login", gin.H{"email": "mod@klu.ac.in"}, "")
		env := mustStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Please provide email and password", env.Message)
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive, _ := createTestUser(t, app, "gone@klu.ac.in", RoleMember)
		inactive.IsActive = false
		require.NoError(t, app.store.UpdateUser(inactive))

		w := doRequest(r, http.MethodPost, "/api/auth/login",
			gin.H{"email": "gone@klu.ac.in", "password": "secret123"}, "")
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Account is deactivated", env.Message)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	user := &User{ID: "user-1", Role: RoleAdmin}

	token, err := GenerateToken(user, "test-secret")
	require.NoError(t, err)

	id, err := ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, errTokenInvalid)
}

func TestParseTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"id":   "user-1",
		"role": RoleAdmin,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(token, "test-secret")
	assert.ErrorIs(t, err, errTokenExpired)
}

func TestAuthMiddlewareChain(t *testing.T) {
	app, r := newTestApp(t)
	admin, adminToken := createTestUser(t, app, "admin@klu.ac.in", RoleAdmin)
	_, memberToken := createTestUser(t, app, "member@klu.ac.in", RoleMember)
	_, modToken := createTestUser(t, app, "mod@klu.ac.in", RoleModerator)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{"no token", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, "Invalid token."},
		{"member blocked from moderator route", memberToken, http.StatusForbidden,
			"Access denied. Moderator or Admin privileges required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/applications", nil, tt.token)
			env := mustStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"id":  admin.ID,
			"exp": time.Now().Add(-time.Minute).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(app.cfg.JWTSecret))
		require.NoError(t, err)

		w := doRequest(r, http.MethodGet, "/api/applications", nil, expired)
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Token expired.", env.Message)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		stranger := &User{ID: "no-such-user"}
		token, err := GenerateToken(stranger, app.cfg.JWTSecret)
		require.NoError(t, err)

		w := doRequest(r, http.MethodGet, "/api/applications", nil, token)
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Invalid token. User not found.", env.Message)
	})

	t.Run("moderator blocked from admin route", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/admin/dashboard", nil, modToken)
		env := mustStatus(t, w, http.StatusForbidden)
		assert.Equal(t, "Access denied. Admin privileges required.", env.Message)
	})

	t.Run("admin passes both gates", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/admin/dashboard", nil, adminToken)
		mustStatus(t, w, http.StatusOK)
	})
}

func TestRegister(t *testing.T) {
	app, r := newTestApp(t)
	_, adminToken := createTestUser(t, app, "admin@klu.ac.in", RoleAdmin)
	_, memberToken := createTestUser(t, app, "member@klu.ac.in", RoleMember)

	body := gin.H{
		"name":     "New Moderator",
		"email":    "newmod@klu.ac.in",
		"password": "secret123",
		"role":     RoleModerator,
	}

	t.Run("non-admin cannot register users", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/register", body, memberToken)
		env := mustStatus(t, w, http.StatusForbidden)
		assert.Equal(t, "Only admins can register new users", env.Message)
	})

	t.Run("admin registers a new user", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/register", body, adminToken)
		mustStatus(t, w, http.StatusCreated)

		created, err := app.store.GetUserByEmail("newmod@klu.ac.in")
		require.NoError(t, err)
		assert.Equal(t, RoleModerator, created.Role)
		assert.True(t, created.IsActive)
		// stored hash, never the plaintext
		assert.NotEqual(t, "secret123", created.Password)
		assert.True(t, CheckPassword(created.Password, "secret123"))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/auth/register", body, adminToken)
		env := mustStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "User already exists with this email", env.Message)
	})
}

func TestChangePassword(t *testing.T) {
	app, r := newTestApp(t)
	_, token := createTestUser(t, app, "mod@klu.ac.in", RoleModerator)

	t.Run("wrong current password", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/auth/change-password",
			gin.H{"currentPassword": "wrong", "newPassword": "brandnew1"}, token)
		env := mustStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Current password is incorrect", env.Message)
	})

	t.Run("success", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/auth/change-password",
			gin.H{"currentPassword": "secret123", "newPassword": "brandnew1"}, token)
		mustStatus(t, w, http.StatusOK)

		w = doRequest(r, http.MethodPost, "/api/auth/login",
			gin.H{"email": "mod@klu.ac.in", "password": "brandnew1"}, "")
		mustStatus(t, w, http.StatusOK)
	})
}

func TestEnsureDefaultAdminIdempotent(t *testing.T) {
	app, _ := newTestApp(t)

	app.EnsureDefaultAdmin()
	first, err := app.store.GetUserByEmail(app.cfg.AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, first.Role)

	app.EnsureDefaultAdmin()
	second, err := app.store.GetUserByEmail(app.cfg.AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
