package v1

import (
	"html/template"
	"net/http"
	"strings"

	"marketing-site/config"
	"marketing-site/internal/delivery/http/middleware"
	"marketing-site/internal/delivery/http/response"
	"marketing-site/internal/delivery/http/web"
	"marketing-site/internal/domain"
	"marketing-site/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	AdminUC     domain.AdminUsecase
	HealthUC    usecase.HealthUsecase
	Pages       *usecase.PageStore
	Templates   *template.Template
	RateLimiter *middleware.RateLimiter // applied to both submit routes
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())

	r.SetHTMLTemplate(deps.Templates)

	limit := deps.RateLimiter.Middleware()

	// Server-rendered page
	site := r.Group("/")
	site.Use(middleware.Session(deps.Pages, deps.Config.IsProduction()))
	site.Use(middleware.CSRFMiddleware(deps.Config.IsProduction()))
	web.NewPageHandler(site, deps.Config.SiteName, limit)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Public routes
	NewContactHandler(v1, deps.ContactUC, limit)
	NewAdminHandler(v1, deps.AdminUC)

	return r
}

// RateLimitResponder answers JSON on /v1 routes and plain text on the page
func RateLimitResponder(c *gin.Context) {
	const msg = "Rate limit exceeded. Please try again later."
	if strings.HasPrefix(c.Request.URL.Path, "/v1/") {
		response.Error(c, http.StatusTooManyRequests, msg, nil)
		return
	}
	c.String(http.StatusTooManyRequests, msg)
}
