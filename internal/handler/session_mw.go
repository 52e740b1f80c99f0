package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionKey = "session"

// sessionMiddleware binds the request to the token slot named by the
// session cookie, issuing a new cookie when it is missing or malformed.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	id, err := c.Cookie(h.opts.CookieName)
	if _, parseErr := uuid.Parse(id); err != nil || parseErr != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.opts.CookieName, id, 0, "/", "", h.opts.CookieSecure, true)
	}

	store, err := h.services.Sessions.Open(c.Request.Context(), id)
	if err != nil {
		h.logger.Sugar().Errorf("failed to restore session: %s", err.Error())
	}

	c.Set(sessionKey, store)

	c.Next()
}
