package utils

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type contextKey string

const UserContextKey contextKey = "user"

const (
	AccessTokenTTL  = time.Hour * 24 * 7
	RefreshTokenTTL = time.Hour * 24 * 30
)

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// GenerateTokenPair issues the access/refresh tokens bound to a user id.
func GenerateTokenPair(userID uint, email string, isAdmin bool) (string, string, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))

	accessTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"email":    email,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(AccessTokenTTL).Unix(),
	})

	accessToken, err := accessTokenBase.SignedString(secret)
	if err != nil {
		return "", "", err
	}

	// jti keeps tokens unique even when two are issued within the same
	// second, so rotation always produces a different string.
	refreshTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
	})

	refreshToken, err := refreshTokenBase.SignedString(secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
