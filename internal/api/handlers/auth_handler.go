package handlers

import (
	"errors"
	"net/http"

	"github.com/dmarto21/finanzas-tracker/internal/api/middleware"
	"github.com/dmarto21/finanzas-tracker/internal/config"
	"github.com/dmarto21/finanzas-tracker/internal/models"
	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	refreshTokenCookie = "refresh_token"
	refreshTokenPath   = "/api/v1/auth"
)

type AuthHandler struct {
	authService service.AuthService
	config      *config.Config
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input models.UserRegistration
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)
	response.RefreshToken = "" // затираем из json ответа

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.UserLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)
	response.RefreshToken = ""

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	// refresh token живет в httpOnly cookie
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found"})
		return
	}

	response, err := h.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenExpired) || errors.Is(err, service.ErrTokenRevoked) {
			h.clearRefreshTokenCookie(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		respondError(c, err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)
	response.RefreshToken = ""

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err == nil && refreshToken != "" {
		_ = h.authService.Logout(c.Request.Context(), refreshToken)
	}

	h.clearRefreshTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out from all devices"})
}

func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	secure := h.config.Env == "production"
	maxAge := int(h.config.RefreshTokenExpiration().Seconds())

	c.SetCookie(
		refreshTokenCookie,
		token,
		maxAge,
		refreshTokenPath,
		"",
		secure,
		true, // httpOnly, недоступен из javascript
	)
}

func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	secure := h.config.Env == "production"

	c.SetCookie(
		refreshTokenCookie,
		"",
		-1,
		refreshTokenPath,
		"",
		secure,
		true,
	)
}
