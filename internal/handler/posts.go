package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/gin-gonic/gin"
)

func postsURL(page int) string {
	return "/posts/" + strconv.Itoa(page)
}

func postFormFromRequest(c *gin.Context) service.PostForm {
	return service.PostForm{
		Title: c.PostForm("title"),
		Body:  c.PostForm("body"),
		Tags:  c.PostFormArray("tags"),
	}
}

// isDraft reports whether a modal form was posted only to toggle a tag or
// filter the tag list.
func isDraft(c *gin.Context) bool {
	return c.PostForm("toggle") != "" || c.PostForm("action") == "filter"
}

func draftForm(c *gin.Context, form service.PostForm) service.PostForm {
	if tag := c.PostForm("toggle"); tag != "" {
		form.Tags = service.ToggleTag(form.Tags, tag)
	}
	return form
}

func tagQuery(c *gin.Context) string {
	return c.DefaultPostForm("q", c.Query("q"))
}

func (h *Handler) postsList(c *gin.Context) {
	store := h.getSession(c)
	ctx := c.Request.Context()

	ctrl := h.services.NewController(store.State())
	defer ctrl.Close()

	var message string
	if err := ctrl.GoToPage(ctx, service.ParsePage(c.Param("page"))); err != nil {
		if h.expired(c, store, err) {
			return
		}
		message = errorMessage(err)
	}

	switch modal := service.ParseModal(c.Query("modal")); modal {
	case service.ModalCreate:
		ctrl.OpenCreate()
	case service.ModalEdit, service.ModalDelete:
		if err := ctrl.OpenByID(ctx, modal, c.Query("id")); err != nil {
			if h.expired(c, store, err) {
				return
			}
			message = errorMessage(err)
		}
	}

	h.renderPosts(c, http.StatusOK, store, ctrl, message)
}

func (h *Handler) postsCreate(c *gin.Context) {
	store := h.getSession(c)
	ctx := c.Request.Context()
	page := service.ParsePage(c.PostForm("page"))
	form := postFormFromRequest(c)

	ctrl := h.services.NewController(store.State())
	defer ctrl.Close()

	if isDraft(c) {
		ctrl.OpenCreate()
		ctrl.Draft(draftForm(c, form))
		h.loadAndRender(c, store, ctrl, page, http.StatusOK, "")
		return
	}

	if err := ctrl.SubmitCreate(ctx, form); err != nil {
		if h.expired(c, store, err) {
			return
		}
		h.loadAndRender(c, store, ctrl, page, errorStatus(err), errorMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, postsURL(page))
}

func (h *Handler) postsEdit(c *gin.Context) {
	store := h.getSession(c)
	ctx := c.Request.Context()
	page := service.ParsePage(c.PostForm("page"))
	form := postFormFromRequest(c)

	ctrl := h.services.NewController(store.State())
	defer ctrl.Close()

	if !h.openForMutation(c, store, ctrl, page, service.ModalEdit) {
		return
	}

	if isDraft(c) {
		ctrl.Draft(draftForm(c, form))
		h.renderPosts(c, http.StatusOK, store, ctrl, "")
		return
	}

	if err := ctrl.SubmitEdit(ctx, form); err != nil {
		if h.expired(c, store, err) {
			return
		}
		h.renderPosts(c, errorStatus(err), store, ctrl, errorMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, postsURL(page))
}

func (h *Handler) postsDelete(c *gin.Context) {
	store := h.getSession(c)
	ctx := c.Request.Context()
	page := service.ParsePage(c.PostForm("page"))

	ctrl := h.services.NewController(store.State())
	defer ctrl.Close()

	if !h.openForMutation(c, store, ctrl, page, service.ModalDelete) {
		return
	}

	if err := ctrl.ConfirmDelete(ctx); err != nil {
		if h.expired(c, store, err) {
			return
		}
		h.renderPosts(c, errorStatus(err), store, ctrl, errorMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, postsURL(page))
}

// openForMutation loads page and opens modal for the post named in the
// path. It renders the response itself and returns false when that fails.
func (h *Handler) openForMutation(c *gin.Context, store *service.SessionStore, ctrl *service.Controller, page int, modal service.Modal) bool {
	ctx := c.Request.Context()

	var message string
	if err := ctrl.GoToPage(ctx, page); err != nil {
		if h.expired(c, store, err) {
			return false
		}
		message = errorMessage(err)
	}

	if err := ctrl.OpenByID(ctx, modal, c.Param("id")); err != nil {
		if h.expired(c, store, err) {
			return false
		}
		h.renderPosts(c, errorStatus(err), store, ctrl, errorMessage(err))
		return false
	}

	if message != "" {
		h.logger.Sugar().Infof("Posts view partially loaded: %s", message)
	}

	return true
}

func (h *Handler) loadAndRender(c *gin.Context, store *service.SessionStore, ctrl *service.Controller, page int, status int, message string) {
	if err := ctrl.GoToPage(c.Request.Context(), page); err != nil {
		if h.expired(c, store, err) {
			return
		}
		if message == "" {
			message = errorMessage(err)
		}
	}

	h.renderPosts(c, status, store, ctrl, message)
}

func (h *Handler) renderPosts(c *gin.Context, status int, store *service.SessionStore, ctrl *service.Controller, message string) {
	snapshot := ctrl.Snapshot()
	query := tagQuery(c)

	page := postsPage{
		Title:     "Posts",
		Claims:    store.Claims(),
		CSRFField: csrfField(c),
		Error:     message,
		IsAdmin:   snapshot.Role == model.RoleAdmin,
		KnownRole: snapshot.Role.Valid(),
		Page:      snapshot.Page,
		View:      snapshot.View,
		PageLinks: snapshot.PageLinks,
	}

	switch snapshot.Modal {
	case service.ModalCreate:
		page.Create = &postFormView{
			Action:      "/posts/create",
			Heading:     "Create Post",
			SubmitLabel: "Create",
			Page:        snapshot.Page,
			Form:        snapshot.CreateForm,
			Errors:      snapshot.CreateErrors,
			Tags:        service.FilterTags(query),
			TagQuery:    query,
			CSRFField:   page.CSRFField,
		}
	case service.ModalEdit:
		page.Edit = &postFormView{
			Action:      "/posts/edit/" + snapshot.Current.ID,
			Heading:     "Edit Post",
			SubmitLabel: "Save",
			Page:        snapshot.Page,
			Form:        snapshot.EditForm,
			Errors:      snapshot.EditErrors,
			Tags:        service.FilterTags(query),
			TagQuery:    query,
			CSRFField:   page.CSRFField,
		}
	case service.ModalDelete:
		page.Delete = snapshot.Current
	}

	c.HTML(status, "posts.html", page)
}

func (h *Handler) postView(c *gin.Context) {
	store := h.getSession(c)

	post, err := h.services.Post.View(c.Request.Context(), store.State().Token, c.Param("id"))
	if err != nil {
		err = service.Classify(err)
		if h.expired(c, store, err) {
			return
		}
		c.HTML(errorStatus(err), "error.html", gin.H{
			"Title":   "Error",
			"Message": errorMessage(err),
		})
		return
	}

	c.HTML(http.StatusOK, "post.html", postPage{
		Title:     post.Title,
		Claims:    store.Claims(),
		CSRFField: csrfField(c),
		Post:      post,
	})
}

// expired signs the session out and sends the browser to the login page
// when err says the posts API no longer accepts the token.
func (h *Handler) expired(c *gin.Context, store *service.SessionStore, err error) bool {
	if !errors.Is(err, service.ErrSessionExpired) {
		return false
	}

	if err := store.Logout(c.Request.Context()); err != nil {
		h.logger.Sugar().Errorf("failed to log out expired session: %s", err.Error())
	}

	c.Redirect(http.StatusSeeOther, "/login")
	return true
}
