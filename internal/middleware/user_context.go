package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const (
	UserIDKey        = "user_id"
	UserEmailKey     = "user_email"
	AuthenticatedKey = "user_authenticated"
)

// ExtractUserContext usa o header X-User-ID injetado pelo gateway quando
// nenhum token válido identificou o usuário
func ExtractUserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) != "" {
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID != "" && !models.IsAnonymous(userID) {
			c.Set(UserIDKey, userID)
			c.Set(AuthenticatedKey, true)
		}

		if userEmail := c.GetHeader("X-User-Email"); userEmail != "" {
			c.Set(UserEmailKey, userEmail)
		}

		c.Next()
	}
}

// GetUserID retorna o ID do usuário ("" para anônimos)
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(UserIDKey); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr
		}
	}
	return ""
}

// GetUserEmail retorna o email do usuário
func GetUserEmail(c *gin.Context) string {
	if userEmail, exists := c.Get(UserEmailKey); exists {
		if userEmailStr, ok := userEmail.(string); ok {
			return userEmailStr
		}
	}
	return ""
}

// IsAuthenticated indica se a requisição foi identificada
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(AuthenticatedKey)
}

// RequireAuthentication middleware que rejeita requisições anônimas
func RequireAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não autenticado"})
			c.Abort()
			return
		}
		c.Next()
	}
}
