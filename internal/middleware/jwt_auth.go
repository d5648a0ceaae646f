package middlewares

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
)

// JWTClaims claims aceitos no token de sessão
type JWTClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity retorna userId ou, na falta dele, sub
func (c *JWTClaims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// JWTConfig parâmetros de validação do token
type JWTConfig struct {
	Secret     string
	CookieName string
}

// ParseToken valida o token HS256 e retorna os claims
func ParseToken(secret, tokenString string) (*JWTClaims, error) {
	if secret == "" {
		return nil, errors.New("segredo JWT não configurado")
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token inválido")
	}
	if claims.Identity() == "" {
		return nil, fmt.Errorf("token sem userId/sub")
	}
	return claims, nil
}

// JWTAuthMiddleware identifica o usuário pelo token do cookie ou do header Authorization.
// Token ausente ou inválido não bloqueia a requisição: o usuário segue anônimo.
func JWTAuthMiddleware(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cfg.CookieName)
		if tokenString == "" || cfg.Secret == "" {
			c.Next()
			return
		}

		claims, err := ParseToken(cfg.Secret, tokenString)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("Token ignorado", logger.Error(err))
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.Identity())
		c.Set(AuthenticatedKey, true)
		if claims.Email != "" {
			c.Set(UserEmailKey, claims.Email)
		}

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
			return cookie
		}
	}

	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
