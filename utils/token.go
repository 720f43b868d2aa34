package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken issues the bearer credential stored on a user row at
// registration. It is an HS256-signed token carrying a random jti for
// uniqueness, with no expiry claim: the token is issued once, never rotated,
// and the stored row remains the source of truth when it is checked.
func GenerateToken(secret string) (string, error) {
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken checks the token's signature. It does not authenticate by
// itself; callers still resolve the token to a user row.
func VerifyToken(tokenString, secret string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
