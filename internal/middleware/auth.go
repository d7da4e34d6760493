package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const claimsKey = "jwt_claims"

// JWTClaims is the decoded identity attached to every authenticated request.
type JWTClaims struct {
	UserID   uuid.UUID
	Username string
	Nombre   string
	Rol      string
}

// JWTAuth validates the Bearer token and stores the claims in the context.
// Only "access" tokens pass; refresh tokens are rejected here.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token de autorización requerido"))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inesperado")
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token inválido o expirado"))
			return
		}
		if tipo, _ := claims["tipo"].(string); tipo != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token inválido o expirado"))
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token inválido o expirado"))
			return
		}

		username, _ := claims["username"].(string)
		nombre, _ := claims["nombre"].(string)
		rol, _ := claims["rol"].(string)
		c.Set(claimsKey, &JWTClaims{UserID: userID, Username: username, Nombre: nombre, Rol: rol})
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles. Administradores pass
// everywhere.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("token de autorización requerido"))
			return
		}
		if claims.Rol == "administrador" {
			c.Next()
			return
		}
		for _, rol := range roles {
			if claims.Rol == rol {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("permisos insuficientes para esta operación"))
	}
}

// GetClaims returns the authenticated identity, or nil on unauthenticated
// routes.
func GetClaims(c *gin.Context) *JWTClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*JWTClaims); ok {
			return claims
		}
	}
	return nil
}
