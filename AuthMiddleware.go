package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "user"

// currentUser returns the principal attached by RequireAuth, or nil.
func currentUser(c *gin.Context) *User {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	u, _ := v.(*User)
	return u
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// resolvePrincipal walks the full verification chain: token present, token
// valid, principal found in the active store, account active. On failure the
// returned message matches the API contract exactly.
func (app *App) resolvePrincipal(c *gin.Context) (*User, string) {
	token := bearerToken(c)
	if token == "" {
		return nil, "Access denied. No token provided."
	}

	userID, err := ParseToken(token, app.cfg.JWTSecret)
	if err != nil {
		if errors.Is(err, errTokenExpired) {
			return nil, "Token expired."
		}
		return nil, "Invalid token."
	}

	user, err := app.store.GetUserByID(userID)
	if err != nil {
		return nil, "Invalid token. User not found."
	}
	if !user.IsActive {
		return nil, "Account is deactivated."
	}
	return user, ""
}

// RequireAuth blocks the request unless a valid token resolves to an active
// principal, which it attaches to the context.
func (app *App) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, errMsg := app.resolvePrincipal(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, errMsg)
			c.Abort()
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the principal when the token checks out but never
// blocks the request. Used on public reads that personalize output.
func (app *App) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := app.resolvePrincipal(c); user != nil {
			c.Set(contextUserKey, user)
		}
		c.Next()
	}
}

// IsAdmin must run after RequireAuth.
func IsAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || user.Role != RoleAdmin {
			respondError(c, http.StatusForbidden, "Access denied. Admin privileges required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsModeratorOrAdmin must run after RequireAuth.
func IsModeratorOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || (user.Role != RoleAdmin && user.Role != RoleModerator) {
			respondError(c, http.StatusForbidden, "Access denied. Moderator or Admin privileges required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
