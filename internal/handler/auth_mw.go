package handler

import (
	"net/http"

	"github.com/BloggingApp/post-web/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	switch service.Guard(h.getSession(c)) {
	case service.GuardResolving:
		c.HTML(http.StatusAccepted, "loading.html", gin.H{"Title": "Loading"})
		c.Abort()
		return
	case service.GuardUnauthenticated:
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	c.Next()
}

func (h *Handler) loginRateLimitMiddleware(c *gin.Context) {
	if h.limiter == nil || h.opts.LoginRateLimit <= 0 {
		c.Next()
		return
	}

	allowed, err := h.limiter.Allow(c.Request.Context(), c.ClientIP(), h.opts.LoginRateLimit, h.opts.LoginWindow)
	if err != nil {
		h.logger.Sugar().Errorf("failed to count login attempt: %s", err.Error())
	}
	if !allowed {
		c.HTML(http.StatusTooManyRequests, "login.html", authPage{
			Title:     "Login",
			CSRFField: csrfField(c),
			Email:     c.PostForm("email"),
			Failure:   errTooManyAttempts.Error(),
		})
		c.Abort()
		return
	}

	c.Next()
}
