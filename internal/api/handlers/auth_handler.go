// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/edesaventas/storefront-api/internal/api/middleware"
	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/edesaventas/storefront-api/internal/domain"
	"github.com/edesaventas/storefront-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthHandler(users repository.UserRepository, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the credentials and sets the session and CSRF cookies.
// Unknown emails and wrong passwords get the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("session token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	csrfToken, err := middleware.GenerateCSRFToken()
	if err != nil {
		log.Error().Err(err).Msg("csrf token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	maxAge := int(h.tokens.TTL().Seconds())
	// Session cookie is HttpOnly; the CSRF cookie must stay readable so the
	// frontend can echo it in the header.
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)
	c.SetCookie(middleware.CSRFCookieName, csrfToken, maxAge, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Logout clears both auth cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.SetCookie(middleware.CSRFCookieName, "", -1, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CSRFToken issues a fresh CSRF cookie and returns its value, so the
// frontend can bootstrap the double-submit pair before logging in.
func (h *AuthHandler) CSRFToken(c *gin.Context) {
	token, err := middleware.GenerateCSRFToken()
	if err != nil {
		log.Error().Err(err).Msg("csrf token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue csrf token"})
		return
	}

	c.SetCookie(middleware.CSRFCookieName, token, 0, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}
