package services

import (
	"errors"

	"boltfarm/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	return &Authentication{secret}, nil
}

func (authentication *Authentication) Secret() []byte {
	return []byte(authentication.secret)
}

// ValidateInitData lets the session JWT pass through the same
// middleware slot as Telegram init data.
func (authentication *Authentication) ValidateInitData(token string) (*models.AccountFromAuth, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &models.AccountFromAuth{
		ID:       claims.ID,
		Username: claims.Username,
	}, nil
}
