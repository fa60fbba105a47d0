package middleware

import (
	"log"
	"net/http"
	"os"
	"strings"

	"ecomdash/api/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired accepts either the static X-API-KEY (AUTH_DEFAULT) or an admin JWT
// from the jwt_token cookie or the Authorization header.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := os.Getenv("AUTH_DEFAULT")
		if apiKey != "" && c.GetHeader("X-API-KEY") == apiKey {
			c.Set("admin_email", "api-key")
			c.Next()
			return
		}
		tokenString, err := c.Cookie("jwt_token")
		if err != nil {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				log.Println("AuthRequired: No JWT token found in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.Printf("AuthRequired: Invalid JWT token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("admin_email", claims.Email)
		c.Next()
	}
}
