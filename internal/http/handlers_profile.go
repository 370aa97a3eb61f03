package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Kasamvinay/phishformer/internal/log"
	"github.com/Kasamvinay/phishformer/internal/queue"
	"github.com/Kasamvinay/phishformer/internal/repo"
	"github.com/Kasamvinay/phishformer/internal/security"
)

// GetProfile godoc
// @Summary Caller's profile
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	au := caller(c)
	oid, err := primitive.ObjectIDFromHex(au.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), oid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":            u.ID.Hex(),
		"name":          u.Name,
		"email":         u.Email,
		"notifications": u.NotificationsOrDefault(),
		"privacy":       u.PrivacyOrDefault(),
	}})
}

type updateNameReq struct {
	Name string `json:"name"`
}

// UpdateProfile godoc
// @Summary Rename the caller's account
// @Tags profile
// @Accept json
// @Produce json
// @Param payload body updateNameReq true "new name"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	au := caller(c)
	var in updateNameReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid name"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(au.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err := h.Store.UpdateUserName(c.Request.Context(), oid, strings.TrimSpace(in.Name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	u, err := h.Store.FindUserByID(c.Request.Context(), oid)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": gin.H{
		"id": u.ID.Hex(), "name": u.Name, "email": u.Email,
	}})
}

// PatchProfile godoc
// @Summary Partial profile update
// @Description Only name, email, notifications and privacy may be written;
// @Description other keys are silently ignored.
// @Tags profile
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/profile [patch]
func (h *Handler) PatchProfile(c *gin.Context) {
	au := caller(c)
	var in map[string]any
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	// the email column is the lower-cased natural key
	if v, ok := in["email"].(string); ok {
		in["email"] = strings.ToLower(strings.TrimSpace(v))
	}

	oid, err := primitive.ObjectIDFromHex(au.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	matched, err := h.Store.UpdateUserFields(c.Request.Context(), oid, in)
	if err != nil {
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword godoc
// @Summary Rotate the caller's password
// @Description A successful change invalidates the current session; the
// @Description caller must sign in again.
// @Tags profile
// @Accept json
// @Produce json
// @Param payload body changePasswordReq true "passwords"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/profile/password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	au := caller(c)
	var in changePasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || in.CurrentPassword == "" || in.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	oid, err := primitive.ObjectIDFromHex(au.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), oid)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if !u.HasPassword() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password login not enabled"})
		return
	}
	if !security.CheckPassword(u.Password.Hash, in.CurrentPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password incorrect"})
		return
	}

	hash, err := security.HashPassword(in.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if err := h.Store.SetPassword(c.Request.Context(), oid, hash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	// a password change always forces re-authentication
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Password updated. Please sign in again."})
}

// DeleteAccount godoc
// @Summary Delete the caller's account and its scan history
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/profile/delete [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	au := caller(c)
	ctx := c.Request.Context()

	oid, err := primitive.ObjectIDFromHex(au.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	// Scans go first: a crash between the two deletes then leaves a user
	// with no scans, which heals on retry. There is no multi-document
	// transaction here.
	removed, err := h.Store.DeleteScansByUser(ctx, au.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if _, err := h.Store.DeleteUser(ctx, oid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	log.WithDD(ctx, log.L()).Info("account deleted",
		zap.String("user_id", au.ID), zap.Int64("scans_removed", removed))

	go h.Events.Publish(context.WithoutCancel(ctx), queue.Exchange, "user.deleted",
		queue.UserDeleted{UserID: au.ID, ScansRemoved: removed},
		reqID(c))

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
