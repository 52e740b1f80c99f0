package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/BloggingApp/post-web/internal/client"
	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const excerptLength = 160

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type authPage struct {
	Title     string
	CSRFField template.HTML
	Username  string
	Email     string
	Role      string
	Roles     []model.Role
	Errors    service.FieldErrors
	Failure   string
	Success   string
	Refresh   int
}

type postFormView struct {
	Action      string
	Heading     string
	SubmitLabel string
	Page        int
	Form        service.PostForm
	Errors      service.FieldErrors
	Tags        []string
	TagQuery    string
	CSRFField   template.HTML
}

type postsPage struct {
	Title     string
	Claims    *model.Claims
	CSRFField template.HTML
	Error     string
	IsAdmin   bool
	KnownRole bool
	Page      int
	View      *service.ListView
	PageLinks []int
	Create    *postFormView
	Edit      *postFormView
	Delete    *model.Post
}

type postPage struct {
	Title     string
	Claims    *model.Claims
	CSRFField template.HTML
	Post      *model.Post
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"head":       head,
		"formatDate": formatDate,
		"markdown":   renderMarkdown,
		"excerpt":    excerpt,
		"join":       strings.Join,
	}
}

// head is the data of the shared page header. A positive refresh sends the
// browser to the posts list after that many seconds.
func head(title string, refresh int) map[string]interface{} {
	return map[string]interface{}{
		"Title":   title,
		"Refresh": refresh,
	}
}

// formatDate shows a timestamp of the posts API as YYYY-MM-DD.
func formatDate(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("2006-01-02")
	}
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

// renderMarkdown renders a post body. Raw HTML in the source is dropped.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func excerpt(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}

func csrfField(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}

func errorStatus(err error) int {
	var (
		fieldErrs service.FieldErrors
		apiErr    *client.APIError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, service.ErrRequestFailed), errors.Is(err, client.ErrBadResponse):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	var (
		fieldErrs service.FieldErrors
		apiErr    *client.APIError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return errFixFields.Error()
	case errors.Is(err, service.ErrSubmitInFlight):
		return service.ErrSubmitInFlight.Error()
	case errors.Is(err, service.ErrRequestFailed), errors.Is(err, client.ErrBadResponse):
		return service.ErrRequestFailed.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return errSomethingWentWrong.Error()
}
