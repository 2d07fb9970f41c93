package jwt

import (
	"errors"
	"os"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

const TTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("replace-this-with-a-strong-secret")
}

func Make(userID string) (string, error) {
	now := time.Now()
	claims := jw.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(TTL).Unix(),
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(secret())
}

// Parse returns the subject of a valid HS256 token.
func Parse(tok string) (string, error) {
	t, err := jw.Parse(tok, func(t *jw.Token) (any, error) { return secret(), nil },
		jw.WithValidMethods([]string{jw.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	uid, _ := mc["sub"].(string)
	if uid == "" {
		return "", ErrInvalidToken
	}
	return uid, nil
}
