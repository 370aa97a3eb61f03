package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the absolute lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidSession is the single outcome for every verification failure:
// expired, forged, malformed and wrong-secret tokens are indistinguishable
// to callers.
var ErrInvalidSession = errors.New("invalid session")

var errNoSecret = errors.New("session secret not configured")

type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// MakeSession mints the self-contained bearer token carried by the session
// cookie. Subject is the user id.
func MakeSession(secret, uid, email, name, picture string) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}
	now := time.Now()
	c := SessionClaims{
		Email: email, Name: name, Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseSession(secret, token string) (*SessionClaims, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	t, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidSession
	}
	c, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || c.Subject == "" {
		return nil, ErrInvalidSession
	}
	return c, nil
}
