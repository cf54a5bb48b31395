package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Purposes for single-use action tokens carried in emailed links.
const (
	PurposeVerifyEmail   = "verify_email"
	PurposePasswordReset = "password_reset"
)

const (
	VerifyEmailTTL   = time.Hour * 24
	PasswordResetTTL = time.Hour
)

// EncodeUID renders a user id as the URL-safe path segment used in
// verification and reset links.
func EncodeUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

func DecodeUID(encoded string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("invalid uid: %v", err)
	}
	id, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid uid: %v", err)
	}
	return uint(id), nil
}

// MakeActionToken signs a time-limited token for a specific purpose.
func MakeActionToken(userID uint, purpose string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// CheckActionToken verifies signature, expiry and purpose, returning the
// bound user id.
func CheckActionToken(tokenString, purpose string) (uint, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	if claims["purpose"] != purpose {
		return 0, fmt.Errorf("token purpose mismatch")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	return uint(userID), nil
}
