package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Kasamvinay/phishformer/internal/domain"
	"github.com/Kasamvinay/phishformer/internal/helper"
	"github.com/Kasamvinay/phishformer/internal/log"
	"github.com/Kasamvinay/phishformer/internal/oauth"
	"github.com/Kasamvinay/phishformer/internal/queue"
	"github.com/Kasamvinay/phishformer/internal/repo"
	"github.com/Kasamvinay/phishformer/internal/security"
)

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	if u, err := h.Store.FindUserByEmail(c.Request.Context(), email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	} else if u != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	u := &domain.User{
		Email:    email,
		Name:     name,
		Password: &domain.PasswordCredential{Hash: hash},
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		// check-then-insert leaves a race window; the unique index wins it
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	log.WithDD(c.Request.Context(), log.L()).Info("user registered",
		zap.String("email_hash", helper.Hash8(email)))

	// detached from the request context: publishing outlives the response
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "user.registered",
		queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.Name},
		reqID(c))

	c.JSON(http.StatusCreated, gin.H{"ok": true, "userId": u.ID.Hex()})
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signinReq true "signin"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var in signinReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	if h.Cfg.JWTSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server not configured"})
		return
	}

	// missing account, missing password credential and wrong password all
	// produce the same response
	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil || u == nil || !u.HasPassword() || !security.CheckPassword(u.Password.Hash, in.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tok, err := security.MakeSession(h.Cfg.JWTSecret, u.ID.Hex(), u.Email, u.Name, u.Picture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	setSessionCookie(c, tok)

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "user.loggedin",
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email},
		reqID(c))

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": gin.H{"name": u.Name, "email": u.Email}})
}

// Signout godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/auth/signin [delete]
func (h *Handler) Signout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me godoc
// @Summary Current session identity
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	au, ok := h.resolveCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":      au.ID,
			"name":    au.Name,
			"email":   au.Email,
			"picture": au.Picture,
		},
	})
}

// resolveCaller is the two-tier identity lookup: the store record wins when
// present and reachable, the token's own claims are the fallback. The
// fallback trades freshness for availability; token verification itself
// still fails closed.
func (h *Handler) resolveCaller(c *gin.Context) (AuthUser, bool) {
	claims := h.sessionClaims(c)
	if claims == nil {
		return AuthUser{}, false
	}
	au := AuthUser{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}
	if oid, err := primitive.ObjectIDFromHex(claims.Subject); err == nil {
		if u, err := h.Store.FindUserByID(c.Request.Context(), oid); err == nil && u != nil {
			au.Email = u.Email
			au.Name = u.Name
			if u.Picture != "" {
				au.Picture = u.Picture
			}
			au.FromStore = true
		}
	}
	return au, true
}

// GoogleStart godoc
// @Summary Begin the Google OAuth flow
// @Tags auth
// @Produce json
// @Success 302
// @Failure 500 {object} map[string]string
// @Router /api/auth/google [get]
func (h *Handler) GoogleStart(c *gin.Context) {
	if !h.Cfg.GoogleConfigured() || h.Cfg.JWTSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google OAuth not configured"})
		return
	}

	state, err := security.NewStateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	setStateCookie(c, state, h.Cfg.Prod)
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

// GoogleCallback drives one authorization attempt to a session or an
// enumerated failure code. The state cookie is consumed exactly once on
// every exit path.
//
// @Summary Google OAuth callback
// @Tags auth
// @Success 302
// @Router /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if provErr := c.Query("error"); provErr != "" {
		h.failOAuth(c, oauth.FailureFromProvider(provErr))
		return
	}
	if code == "" || state == "" {
		h.failOAuth(c, oauth.FailMissingCodeOrState)
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || !validState(cookieState, state) {
		h.failOAuth(c, oauth.FailInvalidState)
		return
	}

	if !h.Cfg.GoogleConfigured() || h.Cfg.JWTSecret == "" {
		h.failOAuth(c, oauth.FailNotConfigured)
		return
	}

	profile, fail := h.Google.Exchange(c.Request.Context(), code)
	if fail != oauth.FailNone {
		h.failOAuth(c, fail)
		return
	}

	u, err := h.Store.UpsertGoogleUser(c.Request.Context(), profile.Email, profile.Name, profile.Picture, profile.Subject)
	if err != nil {
		log.WithDD(c.Request.Context(), log.L()).Error("google upsert", zap.Error(err))
		h.failOAuth(c, oauth.FailUnexpected)
		return
	}

	tok, err := security.MakeSession(h.Cfg.JWTSecret, u.ID.Hex(), u.Email, u.Name, u.Picture)
	if err != nil {
		h.failOAuth(c, oauth.FailUnexpected)
		return
	}

	setSessionCookie(c, tok)
	clearStateCookie(c, h.Cfg.Prod)
	c.Redirect(http.StatusFound, h.Cfg.DashboardURL)
}

// failOAuth is the single failure exit: clear the consumed state, redirect to
// the sign-in route with the short machine code. Nothing else crosses over.
func (h *Handler) failOAuth(c *gin.Context, f oauth.Failure) {
	clearStateCookie(c, h.Cfg.Prod)
	c.Redirect(http.StatusFound, h.Cfg.SigninURL+"?error="+url.QueryEscape(f.Code()))
}
