package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const AdminTokenHeader = "X-Admin-Token"

// HashToken превращает токен администратора в bcrypt-хэш для ADMIN_TOKEN_HASH
func HashToken(token string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	return string(hash), err
}

// CheckToken проверяет токен на совпадение с хэшем
func CheckToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// MustAdmin пропускает запрос только с верным X-Admin-Token.
// Пустой хэш выключает проверку.
func MustAdmin(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.Next()
			return
		}
		token := c.GetHeader(AdminTokenHeader)
		if token == "" || !CheckToken(hash, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
