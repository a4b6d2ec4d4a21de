package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sandyspetshop/petshop-scheduler/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextUserRole = "userRole"
)

// RoleAdmin is the only role allowed into the back office.
const RoleAdmin = "admin"

// AuthMiddleware verifies HS256 tokens issued by the identity service. Tokens carry a
// string "sub", a "role" and optionally a "name".
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token")
			return
		}

		userID, err := claims.GetSubject()
		if err != nil || userID == "" {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token")
			return
		}
		role, _ := claims["role"].(string)
		name, _ := claims["name"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextUserName, name)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole rejects authenticated users without the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			httperr.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

// UserID is the authenticated subject, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
