package authUtils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken signs an HS256 bearer token carrying the account id and its
// role claim (citizen, department or admin).
func GenerateToken(id, role string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(secret)
}
