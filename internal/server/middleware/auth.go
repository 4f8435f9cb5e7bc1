package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ownerContextKey = "owner_id"

// RequireAuth verifies the Bearer token on every request and injects the
// authenticated owner identity (the token subject) into the Gin context.
// Token issuance lives outside this service; only HS256 verification happens
// here. Requests without a valid subject are rejected with 401.
func RequireAuth(secret string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			logger.Warn("rejected invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if claims.Subject == "" {
			logger.Warn("token missing subject claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ownerContextKey, claims.Subject)
		c.Next()
	}
}

// OwnerID extracts the authenticated owner identity set by RequireAuth.
func OwnerID(c *gin.Context) (string, bool) {
	owner := c.GetString(ownerContextKey)
	return owner, owner != ""
}
