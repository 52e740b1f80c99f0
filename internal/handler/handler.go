package handler

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/BloggingApp/post-web/internal/dto"
	"github.com/BloggingApp/post-web/internal/repository"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Options struct {
	ClientOrigin   string
	CookieName     string
	CookieSecure   bool
	LoginRateLimit int64
	LoginWindow    time.Duration
}

type Handler struct {
	logger    *zap.Logger
	services  *service.Service
	limiter   repository.RateLimiter
	opts      Options
	templates *template.Template
}

// New builds the web handlers. limiter may be nil, which disables login
// rate limiting.
func New(logger *zap.Logger, services *service.Service, limiter repository.RateLimiter, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "session_id"
	}

	return &Handler{
		logger:    logger,
		services:  services,
		limiter:   limiter,
		opts:      opts,
		templates: template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")),
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(h.templates)

	if h.opts.ClientOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{h.opts.ClientOrigin},
			AllowMethods:     []string{"POST", "GET"},
			AllowCredentials: true,
		}))
	}

	r.GET("/health", h.health)

	web := r.Group("", h.sessionMiddleware)
	{
		web.GET("/", h.root)

		web.GET("/login", h.loginPage)
		web.POST("/login", h.loginRateLimitMiddleware, h.login)
		web.GET("/register", h.registerPage)
		web.POST("/register", h.register)
		web.POST("/logout", h.logout)

		posts := web.Group("/posts", h.authMiddleware)
		{
			posts.GET("", h.postsList)
			posts.GET("/:page", h.postsList)
			posts.POST("/create", h.postsCreate)
			posts.POST("/edit/:id", h.postsEdit)
			posts.POST("/delete/:id", h.postsDelete)
		}

		web.GET("/post/:id", h.authMiddleware, h.postView)
	}

	return r
}

// Protect wraps the router with CSRF protection for every form.
func (h *Handler) Protect(key []byte, next http.Handler) http.Handler {
	return csrf.Protect(key,
		csrf.Secure(h.opts.CookieSecure),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailure)),
	)(next)
}

func (h *Handler) csrfFailure(w http.ResponseWriter, r *http.Request) {
	h.logger.Sugar().Infof("CSRF check failed for %s %s: %s", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse(h.limiter != nil))
}

func (h *Handler) root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/posts")
}

func (h *Handler) getSession(c *gin.Context) *service.SessionStore {
	sessionReq, _ := c.Get(sessionKey)

	store, ok := sessionReq.(*service.SessionStore)
	if !ok {
		return nil
	}

	return store
}
