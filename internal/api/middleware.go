package api

import (
	"errors"
	"net/http"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	actorKey     = "actor"
	sessionIDKey = "session_id"
)

// requireSession resolves the session cookie and stores the caller in the
// gin context. Requests without a live session get 401.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(h.cookie.CookieName)
		if err != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}

		data, err := h.sessions.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
				return
			}
			h.respondError(c, apperr.Wrap(apperr.CodeDependency, err, "session store unavailable"))
			c.Abort()
			return
		}

		c.Set(actorKey, data.Actor())
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

func actorFrom(c *gin.Context) models.Actor {
	return c.MustGet(actorKey).(models.Actor)
}

func (h *Handler) startSession(c *gin.Context, user *models.User) error {
	// a login replaces whatever session the client already had
	if old, err := c.Cookie(h.cookie.CookieName); err == nil && old != "" {
		_ = h.sessions.Destroy(c.Request.Context(), old)
	}

	sid, err := h.sessions.Create(c.Request.Context(), session.Data{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return apperr.Wrap(apperr.CodeDependency, err, "session store unavailable")
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sid, int(h.sessions.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	return nil
}

func (h *Handler) endSession(c *gin.Context) error {
	sid, err := c.Cookie(h.cookie.CookieName)
	if err == nil && sid != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sid); err != nil {
			return apperr.Wrap(apperr.CodeDependency, err, "session store unavailable")
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	return nil
}
