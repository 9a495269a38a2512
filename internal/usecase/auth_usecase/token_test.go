package auth

import (
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTIssuer_Issue_ClaimsAndExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewJWTIssuer("test-secret", clockStub{t: now})

	signed, expiresIn, err := issuer.Issue(&model.User{
		ID:    42,
		Email: "taro@example.com",
		Role:  model.RoleAdmin,
	})
	assert.NoError(t, err)
	assert.Equal(t, int(accessTokenTTL.Seconds()), expiresIn)

	token, err := jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		assert.Equal(t, jwt.SigningMethodHS256, tk.Method)
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "taro@example.com", claims["email"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, float64(now.Unix()), claims["iat"])
	assert.Equal(t, float64(now.Add(accessTokenTTL).Unix()), claims["exp"])
}

// 別の鍵では検証に通らない
func TestJWTIssuer_Issue_RejectedByWrongSecret(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", NewRealClock())

	signed, _, err := issuer.Issue(&model.User{ID: 1, Email: "x@example.com", Role: model.RoleUser})
	assert.NoError(t, err)

	_, err = jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
