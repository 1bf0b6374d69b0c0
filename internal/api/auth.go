package api

import (
	"net/http"

	"campus-market/internal/service"
	"campus-market/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type profileRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// register creates an account and logs it in
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	user, err := h.svc.Users.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	user, err := h.svc.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.endSession(c); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.svc.Users.GetProfile(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// updateRole changes the role and refreshes the session so later requests
// see it
func (h *Handler) updateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	actor := actorFrom(c)
	role, err := h.svc.Users.UpdateRole(c.Request.Context(), actor.UserID, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	err = h.sessions.Update(c.Request.Context(), c.GetString(sessionIDKey), session.Data{
		UserID:   actor.UserID,
		Username: actor.Username,
		Role:     role,
	})
	if err != nil {
		h.logger.Warn("Failed to refresh session role", zap.Int64("user_id", actor.UserID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	user, err := h.svc.Users.UpdateProfile(c.Request.Context(), actorFrom(c).UserID, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	err := h.svc.Users.ChangePassword(c.Request.Context(), actorFrom(c).UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
