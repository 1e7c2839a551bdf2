package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL bounds every session: an issued token is useless after one hour
// and there is no refresh path.
const TTL = time.Hour

var ErrInvalid = errors.New("invalid token")

func Issue(email string, secret []byte) (string, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"email": email,
		"exp":   exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify checks signature and expiry and returns the email claim. Callers
// only observe pass/fail; the reason (malformed, expired, bad signature)
// is carried in the wrapped error for logging.
func Verify(rawToken string, secret []byte) (string, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: cannot parse claims", ErrInvalid)
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("%w: missing email claim", ErrInvalid)
	}

	return email, nil
}
