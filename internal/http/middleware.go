package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kasamvinay/phishformer/internal/metrics"
	"github.com/Kasamvinay/phishformer/internal/security"
)

const (
	authUserKey  = "authUser"
	requestIDKey = "X-Request-ID"
)

// AuthUser is the resolved caller identity for the current request.
type AuthUser struct {
	ID      string
	Email   string
	Name    string
	Picture string
	// FromStore marks identities enriched from the user document rather
	// than trusted from token claims alone.
	FromStore bool
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// sessionClaims reads and verifies the session cookie. The nil return covers
// every failure mode uniformly: no cookie, bad signature, expired, secret
// unset.
func (h *Handler) sessionClaims(c *gin.Context) *security.SessionClaims {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie == "" {
		return nil
	}
	claims, err := security.ParseSession(h.Cfg.JWTSecret, cookie)
	if err != nil {
		return nil
	}
	return claims
}

// AuthRequired gates a route on a valid session. Verification is pure
// computation; no store access happens here.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := h.sessionClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(authUserKey, AuthUser{
			ID:      claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		})
		c.Next()
	}
}

func caller(c *gin.Context) AuthUser {
	au, _ := c.Get(authUserKey)
	u, _ := au.(AuthUser)
	return u
}

func reqID(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	s, _ := v.(string)
	return s
}
