// Package auth issues and verifies the signed session tokens stored in the
// browser cookie.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the session and user it refers to.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string
	SessionID string
}

func GenerateToken(sessionID, userID string, secretKey []byte, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:    userID,
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
// Expired tokens yield common.ErrTokenExpired, anything else unusable yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.SessionID == "" || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
