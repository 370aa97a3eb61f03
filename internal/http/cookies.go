package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kasamvinay/phishformer/internal/security"
)

const (
	sessionCookie = "session"
	stateCookie   = "oauth_state"

	stateMaxAge = 600 // seconds
)

// isSecure decides the Secure flag: the request arrived over TLS, or a
// trusted proxy says it did.
func isSecure(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

func setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(security.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecure(c),
	})
}

// clearSessionCookie invalidates the session by overwriting the cookie with
// an empty value and an expired max-age.
func clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecure(c),
	})
}

func setStateCookie(c *gin.Context, state string, prod bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   stateMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecure(c) || prod,
	})
}

// clearStateCookie consumes the one-time nonce. Called exactly once on every
// callback exit, success or failure, so a used state can't be replayed. The
// deletion carries the same attributes as the cookie it overwrites.
func clearStateCookie(c *gin.Context, prod bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isSecure(c) || prod,
	})
}

// validState requires byte-exact equality of two non-empty values.
func validState(cookieValue, callbackValue string) bool {
	return cookieValue != "" && callbackValue != "" && cookieValue == callbackValue
}
