package handlers

import (
	"errors"
	"time"

	"siperu/internal/config"
	"siperu/internal/core/domain"
	"siperu/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the session cookie name
const AccessTokenCookie = "access_token"

// AuthHandler handles login and logout for the admin panel
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginForm renders the login page
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return c.Render("auth/login", fiber.Map{
		"Title": "Masuk",
	})
}

// LoginRequest represents the login form fields
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Login verifies credentials and starts a session
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("auth/login", fiber.Map{
			"Title": "Masuk",
			"Error": "Permintaan tidak valid.",
		})
	}

	_, token, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnprocessableEntity).Render("auth/login", fiber.Map{
				"Title":    "Masuk",
				"Error":    "Username atau password salah.",
				"Username": req.Username,
			})
		}
		return c.Status(fiber.StatusInternalServerError).Render("auth/login", fiber.Map{
			"Title": "Masuk",
			"Error": "Terjadi kesalahan, silakan coba lagi.",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Expires:  time.Now().Add(time.Duration(h.cfg.JWT.AccessTokenMins) * time.Minute),
	})

	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// Logout ends the session
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
		Expires:  time.Now().Add(-time.Hour),
	})

	return c.Redirect("/login", fiber.StatusSeeOther)
}
