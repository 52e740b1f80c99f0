package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	loginRefreshSeconds    = 1
	registerRefreshSeconds = 2
)

var registerRoles = []model.Role{model.RoleUser, model.RoleAdmin}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", authPage{
		Title:     "Login",
		CSRFField: csrfField(c),
	})
}

func (h *Handler) login(c *gin.Context) {
	store := h.getSession(c)
	form := service.LoginForm{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	page := authPage{
		Title:     "Login",
		CSRFField: csrfField(c),
		Email:     form.Email,
	}

	if err := form.Validate(); err != nil {
		page.Errors = asFieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "login.html", page)
		return
	}

	if err := store.Login(c.Request.Context(), form.Email, form.Password); err != nil {
		err = service.Classify(err)
		page.Failure = errorMessage(err)
		c.HTML(errorStatus(err), "login.html", page)
		return
	}

	page.Success = "Login successful"
	page.Refresh = loginRefreshSeconds
	c.HTML(http.StatusOK, "login.html", page)
}

func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", authPage{
		Title:     "Register",
		CSRFField: csrfField(c),
		Role:      string(model.RoleUser),
		Roles:     registerRoles,
	})
}

func (h *Handler) register(c *gin.Context) {
	store := h.getSession(c)
	form := service.RegisterForm{
		Username: strings.TrimSpace(c.PostForm("username")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
		Role:     c.PostForm("role"),
	}
	page := authPage{
		Title:     "Register",
		CSRFField: csrfField(c),
		Username:  form.Username,
		Email:     form.Email,
		Role:      form.Role,
		Roles:     registerRoles,
	}

	if err := form.Validate(); err != nil {
		page.Errors = asFieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	resp, err := store.Register(c.Request.Context(), form.Username, form.Email, form.Password, model.Role(form.Role))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Field() != "" {
			page.Errors = service.FieldErrors{apiErr.Field(): errorMessage(apiErr)}
		}
		err = service.Classify(err)
		page.Failure = errorMessage(err)
		c.HTML(errorStatus(err), "register.html", page)
		return
	}

	page.Success = resp.Message
	if page.Success == "" {
		page.Success = "Registration successful"
	}
	page.Refresh = registerRefreshSeconds
	c.HTML(http.StatusCreated, "register.html", page)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.getSession(c).Logout(c.Request.Context()); err != nil {
		h.logger.Sugar().Errorf("failed to log out: %s", err.Error())
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

func asFieldErrors(err error) service.FieldErrors {
	var fieldErrs service.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}
