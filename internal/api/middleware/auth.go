package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmarto21/finanzas-tracker/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// Auth проверяет bearer-токен и кладет личность вызывающего в контекст
// запроса. Просроченный токен отличаем от невалидного, чтобы клиент знал,
// что пора на refresh
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "bearer token required")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				abortUnauthorized(c, "token expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

// GetUserID достает идентификатор пользователя, положенный Auth.
// uuid.Nil означает, что запрос прошел мимо middleware
func GetUserID(c *gin.Context) uuid.UUID {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil
	}
	return id.(uuid.UUID)
}
