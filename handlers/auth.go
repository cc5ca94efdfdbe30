// handlers/auth.go - Guest, register and login endpoints issuing the JWT
// the rest of the API trusts for userId.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/services"
	"github.com/HoneyBadgered/alchemy-sub004/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	store       store.Store
	progression *services.QuestService
}

func NewAuthHandler(st store.Store, progression *services.QuestService) *AuthHandler {
	return &AuthHandler{store: st, progression: progression}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestLogin creates a throwaway account and session.
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	// An empty body is fine for guests.
	_ = c.BodyParser(&req)

	guestName := req.GuestName
	if guestName == "" {
		guestName = fmt.Sprintf("Guest_%s", uuid.New().String()[:8])
	}
	guestEmail := fmt.Sprintf("guest_%s@alchemy.local", uuid.New().String()[:8])

	user := &models.User{
		Username:  guestName,
		Email:     &guestEmail,
		Password:  "",
		IsGuest:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Users().Create(c.Context(), user); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create guest account"})
	}

	return h.issueSession(c, user)
}

// Register creates a full account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Username and password are required"})
	}
	if len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Password must be at least 8 characters"})
	}

	if _, err := h.store.Users().GetByUsername(c.Context(), req.Username); err == nil {
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "Username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create account"})
	}

	user := &models.User{
		Username:  req.Username,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if err := h.store.Users().Create(c.Context(), user); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create account"})
	}

	return h.issueSession(c, user)
}

// Login authenticates an existing account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	user, err := h.store.Users().GetByUsername(c.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid username or password"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Login failed"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid username or password"})
	}

	return h.issueSession(c, user)
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, user *models.User) error {
	token, err := generateToken(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	// Best-effort login stamp; the session is valid regardless.
	_ = h.progression.RecordLogin(context.Background(), user.ID)

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     email,
			IsGuest:   user.IsGuest,
			CreatedAt: user.CreatedAt,
		},
	})
}

func generateToken(user *models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "alchemy-secret-change-in-production"
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_guest": user.IsGuest,
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
