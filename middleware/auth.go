package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ownerKey = "owner_id"

// AnonymousOwner attributes unauthenticated traffic.
const AnonymousOwner = "anonymous"

// Identify resolves the owner identity for a request. A valid Bearer token
// wins; otherwise the X-User-ID header is honored, falling back to the
// anonymous owner. Only a present-but-invalid token is rejected.
func Identify(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if sub, _ := claims["sub"].(string); sub != "" {
					c.Set(ownerKey, sub)
					c.Next()
					return
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(ownerKey, id)
		} else {
			c.Set(ownerKey, AnonymousOwner)
		}
		c.Next()
	}
}

// OwnerID returns the owner identity resolved by Identify.
func OwnerID(c *gin.Context) string {
	if v, ok := c.Get(ownerKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return AnonymousOwner
}
