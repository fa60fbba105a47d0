// api/handlers/auth_handlers.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"ecomdash/api/models"
	"ecomdash/api/store"
	"ecomdash/api/utils"
)

type AuthHandlers struct {
	AdminStore *store.AdminStore
}

func NewAuthHandlers(adminStore *store.AdminStore) *AuthHandlers {
	return &AuthHandlers{AdminStore: adminStore}
}

// Login checks the admin credentials and issues a JWT cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	admin, err := h.AdminStore.GetAdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Login failed for email %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(admin.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("Login failed for email %s: password mismatch", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateJWT(admin)
	if err != nil {
		log.Printf("ERROR: Failed to generate JWT for %s: %v", admin.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetCookie(
		"jwt_token",
		tokenString,
		int(time.Hour/time.Second),
		"/",
		"",
		false,
		true,
	)

	log.Printf("Admin logged in: %s. JWT issued.", admin.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"email":   admin.Email,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(
		"jwt_token",
		"",
		-1,
		"/",
		"",
		false,
		true,
	)

	log.Println("Admin logged out (JWT cookie cleared).")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
