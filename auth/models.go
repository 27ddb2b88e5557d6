package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"typegame/domain"
	"typegame/iternal/pkg"
)

// Token - то что лежит внутри подписанного access токена
type Token struct {
	UserID   domain.UserID
	Username domain.Username
}

func (t Token) MapToAccess(cl pkg.Clock, ttl time.Duration) jwt.Claims {
	return jwt.MapClaims{
		"user_id":  t.UserID,
		"username": t.Username,
		"exp":      cl.Now().Add(ttl).Unix(),
	}
}

var ErrTokenExpired = errors.New("token has expired")
var ErrTokenInvalid = errors.New("invalid token")
