package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenValidity = 24 * time.Hour

var (
	errTokenExpired = errors.New("token expired")
	errTokenInvalid = errors.New("invalid token")
)

// GenerateToken issues a signed HS256 token embedding the principal id and
// role, valid for 24 hours.
func GenerateToken(user *User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenValidity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the embedded
// principal id.
func ParseToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errTokenExpired
		}
		return "", errTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errTokenInvalid
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", errTokenInvalid
	}
	return id, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// userSummary is the principal shape returned by login and /me.
func userSummary(u *User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"position":   u.Position,
		"department": u.Department,
	}
}

// -----------------------------
// Auth handlers
// -----------------------------

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *App) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := app.store.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !CheckPassword(user.Password, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := app.store.UpdateUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Server error during login")
		return
	}

	token, err := GenerateToken(user, app.cfg.JWTSecret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error during login")
		return
	}

	respondMessage(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  userSummary(user),
	})
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (app *App) Register(c *gin.Context) {
	principal := currentUser(c)
	if principal == nil || principal.Role != RoleAdmin {
		respondError(c, http.StatusForbidden, "Only admins can register new users")
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Please provide name, email and password")
		return
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if role != RoleAdmin && role != RoleModerator && role != RoleMember {
		respondError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error during registration")
		return
	}

	now := time.Now().UTC()
	user := User{
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Password:   hash,
		Role:       role,
		Position:   req.Position,
		Department: req.Department,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := app.store.CreateUser(&user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			respondError(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		respondError(c, http.StatusInternalServerError, "Server error during registration")
		return
	}

	respondMessage(c, http.StatusCreated, "User registered successfully", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (app *App) Me(c *gin.Context) {
	respondOK(c, userSummary(currentUser(c)))
}

// Logout is a no-op server side; auth lives entirely in the token, so the
// client just drops it.
func (app *App) Logout(c *gin.Context) {
	respondMessage(c, http.StatusOK, "Logged out successfully", nil)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (app *App) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(c, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	user, err := app.store.GetUserByID(currentUser(c).ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}
	if !CheckPassword(user.Password, req.CurrentPassword) {
		respondError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}
	user.Password = hash
	user.UpdatedAt = time.Now().UTC()
	if err := app.store.UpdateUser(user); err != nil {
		respondError(c, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(c, http.StatusOK, "Password changed successfully", nil)
}

// EnsureDefaultAdmin creates the configured administrator account if it does
// not exist yet. It is idempotent across restarts. Callers delay it slightly
// so the storage mode has settled before the first write.
func (app *App) EnsureDefaultAdmin() {
	if _, err := app.store.GetUserByEmail(app.cfg.AdminEmail); err == nil {
		return
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("Admin initialization skipped: %v", err)
		return
	}

	hash, err := HashPassword(app.cfg.AdminPassword)
	if err != nil {
		log.Printf("Admin initialization skipped: %v", err)
		return
	}
	now := time.Now().UTC()
	admin := User{
		Name:      "Administrator",
		Email:     strings.ToLower(app.cfg.AdminEmail),
		Password:  hash,
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := app.store.CreateUser(&admin); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			log.Printf("Admin initialization skipped: %v", err)
		}
		return
	}
	log.Println("✅ Default admin created")
}
