package auth

import (
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// アクセストークン発行の約束
type AccessTokenIssuer interface {
	Issue(user *model.User) (token string, expiresIn int, err error)
}

// HS256のJWT発行
type JWTIssuer struct {
	secret []byte
	clock  Clock
}

// DI
func NewJWTIssuer(secret string, clock Clock) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		clock:  clock,
	}
}

func (i *JWTIssuer) Issue(user *model.User) (string, int, error) {
	now := i.clock.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int(accessTokenTTL.Seconds()), nil
}
