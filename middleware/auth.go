package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/team-nuri/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

func parseClaims(authHeader string) *utils.UserClaims {
	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(bearerToken[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil
	}

	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &utils.UserClaims{
		UserID:  uint(userID),
		Email:   email,
		IsAdmin: isAdmin,
	}
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		userClaims := parseClaims(authHeader)
		if userClaims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}

// OptionalAuthMiddleware attaches claims when a valid bearer token is
// present but lets anonymous requests through. Message detail uses it: the
// read receipt only fires for the authenticated receiver.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			if userClaims := parseClaims(authHeader); userClaims != nil {
				c.Set(string(utils.UserContextKey), userClaims)
			}
		}
		c.Next()
	}
}
